package poster

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/lornews/lord/internal/config"
	"github.com/lornews/lord/internal/forumapi"
	"github.com/lornews/lord/internal/httpclient"
)

// PostConfig bundles the pieces Post needs beyond the message itself.
// Password and the target group's numeric Forum ID are resolved inside
// Post, from Cfg, once the message's Newsgroups header is known. The
// caller only identifies which local user is posting.
type PostConfig struct {
	Cfg     *config.GatewayConfig
	Nick    string
	Timeout time.Duration
}

// Post parses, validates, and submits the message read from r:
// resolve the posting target's numeric Forum ID from the catalog,
// read the user's password, resolve session freshness, log in or touch
// the session, then POST add.jsp (new topic) or add_comment.jsp
// (comment).
func Post(r io.Reader, pc PostConfig) error {
	pm, err := Parse(r)
	if err != nil {
		return err
	}

	group, ok, err := pc.Cfg.LookupGroup(pm.Newsgroup)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if !ok {
		return fmt.Errorf("no such newsgroup %q", pm.Newsgroup)
	}

	password, err := readPassword(pc.Cfg, pc.Nick)
	if err != nil {
		return err
	}

	client, err := httpclient.New(pc.Cfg.UserDir(pc.Nick), pc.Cfg.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("build http client: %w", err)
	}

	if err := refreshSession(client, pc.Nick, password, pc.Timeout); err != nil {
		return fmt.Errorf("session refresh: %w", err)
	}
	if err := client.SaveCookies(); err != nil {
		return fmt.Errorf("save cookies: %w", err)
	}

	session, ok := client.CookieValue(forumapi.SessionCookieName)
	if !ok {
		return fmt.Errorf("no session cookie after login")
	}

	fields := map[string]string{
		forumapi.FieldSession:  session,
		forumapi.FieldTitle:    pm.Subject,
		forumapi.FieldMessage:  pm.Body,
		forumapi.FieldLinkText: pm.XLinkText,
		forumapi.FieldURL:      pm.XLinkURL,
		forumapi.FieldTags:     pm.Keywords,
		forumapi.FieldAutoURL:  forumapi.AutoURLValue,
	}

	var path string
	if pm.Topic == 0 {
		path = forumapi.PathAddTopic
		fields[forumapi.FieldGroup] = strconv.FormatInt(group.ForumID, 10)
		fields[forumapi.FieldMode] = forumapi.ModeTopic
	} else {
		path = forumapi.PathAddComment
		fields[forumapi.FieldTopic] = strconv.FormatInt(pm.Topic, 10)
		fields[forumapi.FieldReplyTo] = strconv.FormatInt(pm.ReplyTo, 10)
		fields[forumapi.FieldMode] = forumapi.ModeComment
	}

	var resp interface {
		StatusCode() int
		Status() string
		Body() []byte
	}
	if pm.XImagePath != "" {
		data, rerr := readImageFile(pm.XImagePath)
		if rerr != nil {
			return rerr
		}
		r, err := client.PostFormWithFile(path, fields, forumapi.FieldImage, imageFileName(pm.XImagePath), data)
		if err != nil {
			return err
		}
		resp = r
	} else {
		r, err := client.PostForm(path, fields)
		if err != nil {
			return err
		}
		resp = r
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("submission failed: %s", resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body())))
	if err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if forumapi.LoginFailed(doc) {
		return fmt.Errorf("login failed")
	}
	if msg := forumapi.SubmissionError(doc); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// refreshSession performs a fresh login if any cookie expires within
// timeout (i.e. the session token could lapse before the submission
// completes), otherwise touches the session with a no-op GET.
func refreshSession(client *httpclient.Client, nick, password string, timeout time.Duration) error {
	if !client.CookiesExpiringWithin(timeout) {
		_, err := client.GET(forumapi.PathHome)
		return err
	}

	resp, err := client.PostForm(forumapi.PathLogin, map[string]string{
		forumapi.FieldLoginNick:   nick,
		forumapi.FieldLoginPasswd: password,
	})
	if err != nil {
		return err
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("login failed: %s", resp.Status())
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body())))
	if err != nil {
		return fmt.Errorf("parse login response: %w", err)
	}
	if forumapi.LoginFailed(doc) {
		return fmt.Errorf("login rejected")
	}
	return nil
}
