package nntp

import (
	"bufio"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"time"

	"github.com/lornews/lord/internal/config"
)

// clientConn is one accepted connection's state machine.
// currentGroup/currentNumber live here, never in package globals.
type clientConn struct {
	conn   net.Conn
	text   *textproto.Conn
	server *Server

	currentGroup  string
	currentNumber int64
	haveNumber    bool
}

func newClientConn(conn net.Conn, s *Server) *clientConn {
	return &clientConn{
		conn:   conn,
		text:   textproto.NewConn(conn),
		server: s,
	}
}

func (c *clientConn) updateDeadline() {
	c.conn.SetDeadline(time.Now().Add(deadline))
}

// handle serves commands until QUIT, disconnect, or I/O error.
func (c *clientConn) handle() error {
	defer c.text.Close()

	if err := c.sendResponse(200, fmt.Sprintf("lord/%s", config.AppVersion)); err != nil {
		return fmt.Errorf("send greeting: %w", err)
	}

	for {
		c.updateDeadline()
		line, err := c.text.ReadLine()
		if err != nil {
			return err
		}
		if strings.EqualFold(strings.TrimSpace(line), "QUIT") {
			c.sendResponse(205, "Goodbye")
			return nil
		}
		if err := c.dispatch(line); err != nil {
			return err
		}
	}
}

func (c *clientConn) dispatch(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return c.sendResponse(500, "Unknown command")
	}

	cmd := strings.ToUpper(fields[0])
	args := fields[1:]
	c.server.Stats.CommandExecuted(cmd)

	switch cmd {
	case "HELP":
		return c.cmdHelp()
	case "CAPABILITIES":
		return c.cmdCapabilities()
	case "DATE":
		return c.cmdDate()
	case "MODE":
		return c.cmdMode(args)
	case "GROUP":
		return c.cmdGroup(args)
	case "LISTGROUP":
		return c.cmdListGroup(args)
	case "LAST":
		return c.cmdLastNext(args, -1)
	case "NEXT":
		return c.cmdLastNext(args, 1)
	case "ARTICLE":
		return c.cmdArticleLike(args, artFull)
	case "HEAD":
		return c.cmdArticleLike(args, artHead)
	case "BODY":
		return c.cmdArticleLike(args, artBody)
	case "STAT":
		return c.cmdArticleLike(args, artStat)
	case "NEWGROUPS":
		return c.cmdNewgroups(args)
	case "NEWNEWS":
		return c.cmdNewnews(args)
	case "LIST":
		return c.cmdList(args)
	case "OVER", "XOVER":
		return c.cmdOver(args)
	case "POST":
		return c.cmdPost()
	default:
		return c.sendResponse(500, "Unknown command")
	}
}

func (c *clientConn) sendResponse(code int, message string) error {
	return c.text.PrintfLine("%d %s", code, message)
}

// sendMultilineResponse sends the status line, then dot-stuffed data
// lines, then the terminating ".".
func (c *clientConn) sendMultilineResponse(code int, message string, lines []string) error {
	if err := c.sendResponse(code, message); err != nil {
		return err
	}
	dw := c.text.DotWriter()
	w := bufio.NewWriter(dw)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\r\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return dw.Close()
}
