package nntp

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// cmdPost implements POST: read the article body until a line of ".",
// un-stuff leading dots, rewrite CRLF to LF, then hand the fully
// buffered article to the poster subprocess's stdin. Never a streaming
// pipe: a terminated connection during POST must not leave a
// half-written article.
func (c *clientConn) cmdPost() error {
	if err := c.sendResponse(340, "Send article"); err != nil {
		return err
	}

	var body bytes.Buffer
	for {
		line, err := c.text.ReadLine()
		if err != nil {
			return err
		}
		if line == "." {
			break
		}
		unstuffed := line
		if strings.HasPrefix(line, "..") {
			unstuffed = line[1:]
		}
		body.WriteString(unstuffed)
		body.WriteByte('\n')
	}

	errText, code, err := c.runPoster(body.Bytes())
	if err != nil {
		return err
	}
	if code == 0 {
		return c.sendResponse(240, "Article posted at LOR")
	}
	if errText == "" {
		errText = "Something failed"
	}
	return c.sendResponse(441, errText)
}

// runPoster spawns the configured post command, pipes article on its
// stdin, and captures the last line written to its stderr.
func (c *clientConn) runPoster(article []byte) (lastStderrLine string, exitCode int, err error) {
	postCmd := c.server.Cfg.PostCommand
	if postCmd == "" {
		postCmd = "lorpost"
	}

	cmd := exec.Command(postCmd, "-t", strconv.Itoa(int(c.server.Cfg.HTTPTimeout.Seconds())))
	cmd.Stdin = bytes.NewReader(article)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", 0, fmt.Errorf("open poster stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", 0, fmt.Errorf("start poster: %w", err)
	}

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lastStderrLine = line
		}
	}

	waitErr := cmd.Wait()
	if waitErr == nil {
		return lastStderrLine, 0, nil
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		return lastStderrLine, exitErr.ExitCode(), nil
	}
	return "", 0, fmt.Errorf("wait poster: %w", waitErr)
}
