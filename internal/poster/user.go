package poster

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lornews/lord/internal/config"
)

// readPassword reads the nick's cleartext password's
// "<root>/users/<nick>/passwd" layout.
func readPassword(cfg *config.GatewayConfig, nick string) (string, error) {
	data, err := os.ReadFile(cfg.PasswdPath(nick))
	if err != nil {
		return "", fmt.Errorf("read password for %q: %w", nick, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ResolveNick finds the single configured Forum account under
// <root>/users, for the single-account deployment model this gateway
// targets (there is exactly one "the user's" password and cookie
// jar). It is an error for zero or more than one account to be present;
// an operator with several accounts should run separate installs.
func ResolveNick(cfg *config.GatewayConfig) (string, error) {
	entries, err := os.ReadDir(filepath.Join(cfg.Root, "users"))
	if err != nil {
		return "", fmt.Errorf("no configured Forum account: %w", err)
	}
	var nicks []string
	for _, e := range entries {
		if e.IsDir() {
			nicks = append(nicks, e.Name())
		}
	}
	sort.Strings(nicks)
	switch len(nicks) {
	case 0:
		return "", fmt.Errorf("no configured Forum account under %s/users; run lordusers -nick NICK first", cfg.Root)
	case 1:
		return nicks[0], nil
	default:
		return "", fmt.Errorf("multiple Forum accounts under %s/users (%s); this install supports exactly one", cfg.Root, strings.Join(nicks, ", "))
	}
}
