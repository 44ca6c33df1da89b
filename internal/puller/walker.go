package puller

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/lornews/lord/internal/config"
	"github.com/lornews/lord/internal/forumapi"
	"github.com/lornews/lord/internal/httpclient"
	"github.com/lornews/lord/internal/models"
	"github.com/lornews/lord/internal/nntp"
	"github.com/lornews/lord/internal/store"
	"github.com/lornews/lord/internal/textrender"
)

// Walker drives one pull pass: expiry (if enabled) then pagination walk
// and append.
type Walker struct {
	Store  *store.Store
	Cfg    *config.GatewayConfig
	Client *httpclient.Client
}

// Run walks every catalog group matching pattern, expiring first (if
// cfg.ExpireDays >= 0) then pulling articles newer than pullDays.
func (w *Walker) Run(pattern string, pullDays int) error {
	groups, err := w.Cfg.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	for _, g := range groups {
		if pattern != "" {
			matched, err := nntp.MatchPattern(g.Name, pattern)
			if err != nil {
				return fmt.Errorf("pattern %q: %w", pattern, err)
			}
			if !matched {
				continue
			}
		}

		// Ensure the group's index exists even if this pass finds nothing
		// to pull, so a freshly-catalogued group answers NNTP GROUP with
		// "empty group" rather than "no such
		// newsgroup" before its first successful fetch.
		if gi, cerr := w.Store.OpenGroupIndex(g.Name, store.ReadWriteCreate); cerr != nil {
			log.Printf("[PULLER] create index %s: %v", g.Name, cerr)
		} else {
			gi.Close()
		}

		if w.Cfg.ExpireDays >= 0 {
			deleted, err := w.Store.Expire(g.Name, store.ExpirePolicy{Days: w.Cfg.ExpireDays})
			if err != nil {
				log.Printf("[PULLER] expire %s: %v", g.Name, err)
			} else if deleted > 0 {
				log.Printf("[PULLER] expired %d articles in %s", deleted, g.Name)
			}
		}

		if pullDays < 0 {
			continue
		}
		if err := w.pullGroup(g, pullDays); err != nil {
			log.Printf("[PULLER] pull %s: %v", g.Name, err)
		}
	}
	return nil
}

func (w *Walker) pullGroup(g models.Newsgroup, pullDays int) error {
	cutoff := time.Now().AddDate(0, 0, -pullDays)

	pageSize := w.Cfg.PullOffsetSize
	if pageSize <= 0 {
		pageSize = config.GroupLastmodPageSize
	}
	for offset := 0; ; offset += pageSize {
		path := forumapi.PathGroupLastmod + "?" +
			forumapi.QueryGroup + "=" + url.QueryEscape(strconv.FormatInt(g.ForumID, 10)) +
			"&" + forumapi.QueryOffset + "=" + strconv.Itoa(offset)

		resp, err := w.Client.GET(path)
		if err != nil {
			return err
		}
		refs, err := ParseLastmodPage(newBodyReader(resp.Body()))
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			return nil
		}

		done := false
		for _, ref := range refs {
			// A clipped thread's displayed age is unreliable;
			// never let it terminate the walk.
			if !ref.Clipped && parseAge(ref.Age).Before(cutoff) {
				done = true
				break
			}
			if err := w.pullThread(g, ref); err != nil {
				log.Printf("[PULLER] thread %d in %s: %v", ref.Topic, g.Name, err)
			}
		}
		if done {
			return nil
		}
	}
}

func (w *Walker) pullThread(g models.Newsgroup, ref ThreadRef) error {
	gi, err := w.Store.OpenGroupIndex(g.Name, store.ReadWriteCreate)
	if err != nil {
		return err
	}
	storedCount, _ := gi.LookupTopicCount(ref.Topic)
	seen, serr := gi.TopicComments(ref.Topic)
	gi.Close()
	if serr != nil {
		return serr
	}

	if int64(ref.CommentPages) <= storedCount && storedCount > 0 {
		return nil // page counter hasn't grown; nothing new
	}

	// Comment pages are fetched last-first so that, if comments land
	// while we walk, the earlier pages we read afterwards are still a
	// consistent prefix; appending then runs first page onward so article
	// numbers follow the forum's chronological order.
	var pages []*ParsedThread
	for page := ref.CommentPages; page >= 1; page-- {
		path := forumapi.PathViewMessage + "?" +
			forumapi.QueryMsgid + "=" + strconv.FormatInt(ref.Topic, 10) +
			"&" + forumapi.QueryPage + "=" + strconv.Itoa(page)
		resp, err := w.Client.GET(path)
		if err != nil {
			return err
		}
		pt, err := ParseThreadPage(ref.Topic, newBodyReader(resp.Body()), page == 1)
		if err != nil {
			return err
		}
		pages = append(pages, pt)
	}

	refsCache := map[int64]string{}
	for i := len(pages) - 1; i >= 0; i-- {
		for _, msg := range pages[i].Messages {
			if seen[msg.CommentID] {
				continue // already stored on an earlier pass
			}
			if err := w.appendMessage(g, ref.Topic, pages[i].Subject, msg, refsCache); err != nil {
				log.Printf("[PULLER] append topic=%d comment=%d: %v", ref.Topic, msg.CommentID, err)
			}
			seen[msg.CommentID] = true
		}
	}
	return nil
}

// appendMessage builds and appends one article. refsCache maps a
// comment ID already appended in this pass to its References header, so
// a nested reply's References chains through its parent's; a
// parent appended on an earlier pass is chased through the stored
// overview instead.
func (w *Walker) appendMessage(g models.Newsgroup, topic int64, topicSubject string, msg ParsedMessage, refsCache map[int64]string) error {
	rendered := textrender.Render(msg.BodyNode.sel)

	subject := msg.Subject
	if subject == "" {
		subject = topicSubject
	}

	art := &models.Article{
		Newsgroups: g.Name,
		Subject:    subject,
		From:       msg.Author,
		Date:       msg.Date,
		Body:       rendered.Body,
		XStars:     msg.Stars,
		XLinkURL:   rendered.XLinkURL,
		XLinkText:  rendered.XLinkText,
		XVoteURL:   rendered.XVoteURL,
	}

	if msg.CommentID == 0 {
		art.MessageID = models.TopicMessageID(topic)
	} else {
		art.MessageID = models.CommentMessageID(topic, msg.CommentID)
		parentID := models.TopicMessageID(topic)
		if msg.InReplyTo != 0 {
			parentID = models.CommentMessageID(topic, msg.InReplyTo)
		}
		parentRefs, cached := refsCache[msg.InReplyTo]
		if !cached && msg.InReplyTo != 0 {
			parentRefs = w.storedReferences(g.Name, topic, msg.InReplyTo)
		}
		if parentRefs != "" {
			art.References = parentRefs + " " + parentID
		} else {
			art.References = parentID
		}
	}
	refsCache[msg.CommentID] = art.References

	_, err := w.Store.AppendArticle(g.Name, topic, msg.CommentID, art)
	return err
}

// storedReferences returns the References header recorded in the
// overview of an already-stored comment, or "" if it cannot be found.
func (w *Walker) storedReferences(group string, topic, comment int64) string {
	id := models.CommentMessageID(topic, comment)
	_, num, _, found, err := w.Store.LookupByMessageID([]string{group}, id)
	if err != nil || !found {
		return ""
	}
	gi, err := w.Store.OpenGroupIndex(group, store.ReadOnly)
	if err != nil {
		return ""
	}
	defer gi.Close()
	ov, ok, err := gi.LookupOverview(num)
	if err != nil || !ok {
		return ""
	}
	return ov.References
}
