package nntp

import (
	"bufio"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lornews/lord/internal/config"
	"github.com/lornews/lord/internal/models"
	"github.com/lornews/lord/internal/store"
)

// newTestServer wires a Server against a fresh on-disk store rooted at a
// temp dir, with a catalog containing one group.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	cfg := &config.GatewayConfig{Root: root}
	if err := os.WriteFile(cfg.CatalogPath(), []byte("lor.forum.talks 42 Talks\n"), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if err := cfg.WriteCreationDate(time.Now().UTC()); err != nil {
		t.Fatalf("write creation date: %v", err)
	}
	st := store.New(cfg)
	return NewServer(cfg, st)
}

// dialTestConn runs one clientConn over an in-memory pipe and returns a
// buffered reader/writer pair for the test to drive as the NNTP client.
func dialTestConn(t *testing.T, srv *Server) (*bufio.Reader, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	cc := newClientConn(server, srv)
	go cc.handle()
	r := bufio.NewReader(client)
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read greeting: %v", err)
	}
	if !strings.HasPrefix(line, "200 ") {
		t.Fatalf("greeting = %q, want 200 prefix", line)
	}
	return r, client
}

func sendLine(t *testing.T, conn net.Conn, line string) {
	t.Helper()
	if _, err := conn.Write([]byte(line + "\r\n")); err != nil {
		t.Fatalf("write %q: %v", line, err)
	}
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read line: %v", err)
	}
	return strings.TrimRight(line, "\r\n")
}

func TestGroupEmptyThenLastNext(t *testing.T) {
	srv := newTestServer(t)
	gi, err := srv.Store.OpenGroupIndex("lor.forum.talks", store.ReadWriteCreate)
	if err != nil {
		t.Fatalf("create index: %v", err)
	}
	gi.Close()

	r, conn := dialTestConn(t, srv)
	defer conn.Close()

	sendLine(t, conn, "GROUP lor.forum.talks")
	if got := readLine(t, r); got != "211 0 1 0 lor.forum.talks" {
		t.Errorf("GROUP response = %q, want %q", got, "211 0 1 0 lor.forum.talks")
	}

	sendLine(t, conn, "LAST")
	if got := readLine(t, r); got != "420 Current article number is invalid" {
		t.Errorf("LAST on empty group = %q, want 420", got)
	}

	sendLine(t, conn, "NEXT")
	if got := readLine(t, r); got != "420 Current article number is invalid" {
		t.Errorf("NEXT on empty group = %q, want 420", got)
	}
}

func TestSingleTopicPullAndRead(t *testing.T) {
	srv := newTestServer(t)
	now := time.Now()

	topicArt := &models.Article{
		Newsgroups: "lor.forum.talks",
		Subject:    "A topic",
		From:       "nick@forum.linux.org.ru",
		Date:       now,
		MessageID:  models.TopicMessageID(12345),
		Body:       "topic body\n",
	}
	if _, err := srv.Store.AppendArticle("lor.forum.talks", 12345, 0, topicArt); err != nil {
		t.Fatalf("append topic: %v", err)
	}

	commentArt := &models.Article{
		Newsgroups: "lor.forum.talks",
		Subject:    "A topic",
		From:       "other@forum.linux.org.ru",
		Date:       now,
		MessageID:  models.CommentMessageID(12345, 678),
		References: models.TopicMessageID(12345),
		Body:       "a comment\n",
	}
	if _, err := srv.Store.AppendArticle("lor.forum.talks", 12345, 678, commentArt); err != nil {
		t.Fatalf("append comment: %v", err)
	}

	r, conn := dialTestConn(t, srv)
	defer conn.Close()

	sendLine(t, conn, "GROUP lor.forum.talks")
	if got := readLine(t, r); !strings.HasPrefix(got, "211 2 1 2 ") {
		t.Errorf("GROUP response = %q, want prefix '211 2 1 2 '", got)
	}

	sendLine(t, conn, "STAT 1")
	if got := readLine(t, r); got != "223 1 <lor12345@linux.org.ru>" {
		t.Errorf("STAT 1 = %q", got)
	}

	sendLine(t, conn, "STAT 2")
	if got := readLine(t, r); got != "223 2 <lor12345.678@linux.org.ru>" {
		t.Errorf("STAT 2 = %q", got)
	}

	sendLine(t, conn, "HEAD 2")
	status := readLine(t, r)
	if !strings.HasPrefix(status, "221 2 ") {
		t.Fatalf("HEAD 2 status = %q", status)
	}
	var headerLines []string
	for {
		line := readLine(t, r)
		if line == "." {
			break
		}
		headerLines = append(headerLines, line)
	}
	found := false
	for _, l := range headerLines {
		if l == "References: <lor12345@linux.org.ru>" {
			found = true
		}
	}
	if !found {
		t.Errorf("HEAD 2 headers = %v, want References line", headerLines)
	}
}

func TestUnknownMessageID(t *testing.T) {
	srv := newTestServer(t)
	gi, err := srv.Store.OpenGroupIndex("lor.forum.talks", store.ReadWriteCreate)
	if err != nil {
		t.Fatalf("create index: %v", err)
	}
	gi.Close()

	r, conn := dialTestConn(t, srv)
	defer conn.Close()

	sendLine(t, conn, "ARTICLE <lor99999@linux.org.ru>")
	if got := readLine(t, r); got != "430 No article with that message-id" {
		t.Errorf("ARTICLE by unknown message-id = %q, want 430", got)
	}
}

func TestDotStuffingRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	art := &models.Article{
		Newsgroups: "lor.forum.talks",
		Subject:    "dotted",
		From:       "nick@forum.linux.org.ru",
		Date:       time.Now(),
		MessageID:  models.TopicMessageID(1),
		Body:       ".Hello\nnormal line\n",
	}
	if _, err := srv.Store.AppendArticle("lor.forum.talks", 1, 0, art); err != nil {
		t.Fatalf("append: %v", err)
	}

	r, conn := dialTestConn(t, srv)
	defer conn.Close()

	sendLine(t, conn, "GROUP lor.forum.talks")
	readLine(t, r)

	sendLine(t, conn, "BODY 1")
	status := readLine(t, r)
	if !strings.HasPrefix(status, "222 1 ") {
		t.Fatalf("BODY 1 status = %q", status)
	}
	first := readLine(t, r)
	if first != "..Hello" {
		t.Errorf("dot-stuffed first line = %q, want '..Hello'", first)
	}
	second := readLine(t, r)
	if second != "normal line" {
		t.Errorf("second line = %q, want 'normal line'", second)
	}
	terminator := readLine(t, r)
	if terminator != "." {
		t.Errorf("terminator = %q, want '.'", terminator)
	}
}

func TestGroupNotInCatalog(t *testing.T) {
	srv := newTestServer(t)

	r, conn := dialTestConn(t, srv)
	defer conn.Close()

	sendLine(t, conn, "GROUP lor.forum.unknown")
	if got := readLine(t, r); got != "411 No such newsgroup" {
		t.Errorf("GROUP on unlisted group = %q, want 411", got)
	}
}

func TestGroupListedButNeverPulled(t *testing.T) {
	srv := newTestServer(t)

	r, conn := dialTestConn(t, srv)
	defer conn.Close()

	sendLine(t, conn, "GROUP lor.forum.talks")
	if got := readLine(t, r); got != "211 0 1 0 lor.forum.talks" {
		t.Errorf("GROUP on never-pulled catalog group = %q, want empty-group 211", got)
	}
}
