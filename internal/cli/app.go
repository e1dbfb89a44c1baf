// Package cli implements the netparental actions on top of the rule repository.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"netparental/internal/models"
	"netparental/internal/rules"
	"netparental/internal/storage"
)

var (
	ErrRuleNotFound    = errors.New("rule not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// App runs one invocation's actions against the router.
// It keeps the rule snapshot from Load up to date with its own changes;
// it never re-reads the router on its own.
type App struct {
	repo  *storage.Repository
	out   io.Writer
	log   *slog.Logger
	rules []models.Rule
}

// New creates an App
func New(repo *storage.Repository, out io.Writer, log *slog.Logger) *App {
	return &App{
		repo: repo,
		out:  out,
		log:  log,
	}
}

// Load fetches the current rules from the router
func (a *App) Load() error {
	all, err := a.repo.FetchAll()
	if err != nil {
		return err
	}
	a.rules = all
	if len(all) == 0 {
		fmt.Fprintln(a.out, "There are no available entries.")
	}
	return nil
}

// Rules returns the current snapshot
func (a *App) Rules() []models.Rule {
	return append([]models.Rule(nil), a.rules...)
}

// List prints every rule
func (a *App) List() {
	for _, rule := range a.rules {
		PrintRule(a.out, rule)
		fmt.Fprintln(a.out)
	}
}

// Add parses entry and installs it. index 0 picks the lowest free index.
func (a *App) Add(entry string, devices rules.DeviceLookup, index int) (models.Rule, error) {
	rule, err := rules.ParseEntry(entry, devices)
	if err != nil {
		return models.Rule{}, err
	}

	if index == 0 {
		index = rules.NextIndex(rules.IndexesOf(a.rules))
	} else if _, taken := storage.FindByIndex(a.rules, index); taken {
		return models.Rule{}, fmt.Errorf("index %d is already in use", index)
	}
	if err := rule.WithIndex(index).Validate(); err != nil {
		return models.Rule{}, err
	}
	fmt.Fprintf(a.out, "Available index is %d\n", index)

	added, err := a.repo.Add(rule, index)
	if err != nil {
		return models.Rule{}, err
	}
	a.rules = append(a.rules, added)

	fmt.Fprintf(a.out, "Add entry for %s successful.\n", added.Username)
	return added, nil
}

// Remove deletes by index when target is a number, otherwise every rule of
// the user named target. It returns how many rules were removed.
func (a *App) Remove(target string) (int, error) {
	if index, ok := parseIndex(target); ok {
		rule, found := storage.FindByIndex(a.rules, index)
		if !found {
			return 0, fmt.Errorf("index %d: %w", index, ErrRuleNotFound)
		}
		if err := a.repo.Remove(rule); err != nil {
			return 0, err
		}
		a.forget(rule.Index)
		fmt.Fprintln(a.out, "> Done")
		return 1, nil
	}
	return a.removeUser(target)
}

// ApplyProfile replaces the rules of every user in the named profile with
// the profile's schedule.
func (a *App) ApplyProfile(name string, profiles models.ProfileMap, devices rules.DeviceLookup) error {
	profile, ok := profiles.Lookup(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrProfileNotFound)
	}

	// Validate every entry before touching the router
	entries := profile.Entries()
	for _, entry := range entries {
		if _, err := rules.ParseEntry(entry, devices); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}

	for _, user := range profile.Users {
		user = strings.TrimSpace(user)
		if user == "" {
			continue
		}
		if _, err := a.removeUser(user); err != nil {
			return err
		}
		a.log.Debug("All entries for user have been removed", "user", user)
	}

	for _, entry := range entries {
		a.log.Debug("Generated entry string", "entry", entry)
		if _, err := a.Add(entry, devices, 0); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}
	return nil
}

// SetEnable writes the global flag. Only "1" enables, like the router UI.
func (a *App) SetEnable(value string) error {
	return a.repo.SetEnabled(value == "1")
}

// PrintEnable prints the router's answer for the global flag
func (a *App) PrintEnable() error {
	_, raw, err := a.repo.Enabled()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, raw)
	return nil
}

// PrintFilters prints the packet filter chain
func (a *App) PrintFilters() error {
	lines, err := a.repo.FilterTable()
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *App) removeUser(username string) (int, error) {
	matches := storage.FindAllByUsername(a.rules, username)
	n, err := a.repo.RemoveAllForUser(a.rules, username)
	for _, rule := range matches[:n] {
		a.forget(rule.Index)
	}
	if err != nil {
		return n, err
	}
	a.log.Info("Removed rules for user", "user", username, "count", n)
	return n, nil
}

func (a *App) forget(index int) {
	kept := a.rules[:0]
	for _, r := range a.rules {
		if r.Index != index {
			kept = append(kept, r)
		}
	}
	a.rules = kept
}

// parseIndex accepts only plain decimal digits
func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PrintRule writes one rule in the listing format
func PrintRule(w io.Writer, rule models.Rule) {
	fmt.Fprintf(w, "Entry no. %d\n", rule.Index)
	fmt.Fprintf(w, "- Username:\t%s\n", rule.Username)
	fmt.Fprintf(w, "- MAC Address:\t%s\n", rule.MACAddress)
	fmt.Fprintf(w, "- Allowed:\t%t\n", rule.InternetAllowed)
	fmt.Fprintf(w, "- Days:\t\t%s\n", rule.Days())
	fmt.Fprintf(w, "- Time from:\t%s\n", rule.TimeFrom)
	fmt.Fprintf(w, "- Time to:\t%s\n", rule.TimeTo)
}
