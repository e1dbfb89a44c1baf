package storage

import (
	"errors"
	"fmt"
	"log/slog"

	"netparental/internal/models"
	"netparental/internal/rules"
	"netparental/internal/services"
)

// Repository keeps the router's two copies of each rule, the ebtables DROP
// entry and the RestRules.<n> configuration object, in step.
//
// Nothing here is transactional. A fatal failure part way through Add or
// Remove leaves whatever the earlier steps did on the router.
type Repository struct {
	cfg    *services.CfgCmd
	filter *services.Ebtables
	shadow *services.ShadowFile
	log    *slog.Logger
}

// NewRepository creates a Repository
func NewRepository(cfg *services.CfgCmd, filter *services.Ebtables, shadow *services.ShadowFile, log *slog.Logger) *Repository {
	return &Repository{
		cfg:    cfg,
		filter: filter,
		shadow: shadow,
		log:    log,
	}
}

// FetchAll reads every rule from the configuration tree, in get_idxes order.
// No rules is an empty slice, not an error.
func (r *Repository) FetchAll() ([]models.Rule, error) {
	lines, err := r.cfg.Indexes()
	if err != nil {
		return nil, fmt.Errorf("list rule indexes: %w", err)
	}
	indexes, err := rules.ParseIndexes(lines)
	if err != nil {
		return nil, err
	}

	result := make([]models.Rule, 0, len(indexes))
	for _, index := range indexes {
		dump, err := r.cfg.Get(r.cfg.RulePath(index))
		if err != nil {
			return nil, fmt.Errorf("get rule %d: %w", index, err)
		}
		rule, err := rules.ParseRule(index, dump)
		if err != nil {
			return nil, fmt.Errorf("parse rule %d: %w", index, err)
		}
		r.log.Debug("Parsed rule", "index", index, "username", rule.Username)
		result = append(result, rule)
	}
	return result, nil
}

// Add installs rule at index and returns the rule as installed.
//
// Steps: ebtables DROP entry (tolerated), add_obj (fatal), then the six
// field sets (each fatal). All commands are built before the first is sent
// so an invalid value never reaches the router.
func (r *Repository) Add(rule models.Rule, index int) (models.Rule, error) {
	rule = rule.WithIndex(index)
	if err := rule.Validate(); err != nil {
		return models.Rule{}, err
	}

	filterCmd, err := r.filter.AppendCommand(rule)
	if err != nil {
		return models.Rule{}, err
	}
	addCmd, err := r.cfg.AddObjCommand(index)
	if err != nil {
		return models.Rule{}, err
	}
	setCmds, err := r.cfg.FieldCommands(rule)
	if err != nil {
		return models.Rule{}, err
	}

	r.log.Debug("Adding rule", "index", index, "username", rule.Username, "schedule", rules.FormatSchedule(rule))

	if err := r.filter.Send(filterCmd); err != nil {
		return models.Rule{}, fmt.Errorf("add filter for rule %d: %w", index, err)
	}

	if err := r.cfg.Run(addCmd); err != nil {
		return models.Rule{}, fmt.Errorf("create rule %d: %w", index, err)
	}

	for _, cmd := range setCmds {
		if err := r.cfg.Run(cmd); err != nil {
			r.log.Error("Rule left partially populated", "index", index)
			return models.Rule{}, fmt.Errorf("populate rule %d: %w", index, err)
		}
	}

	r.log.Info("Added rule", "index", index, "username", rule.Username)
	return rule, nil
}

// Remove deletes rule from the router.
//
// Steps: ebtables DROP entry (tolerated), shadow file lines (tolerated),
// del_obj (fatal).
func (r *Repository) Remove(rule models.Rule) error {
	delObj, err := r.cfg.DelObjCommand(rule.Index)
	if err != nil {
		return err
	}

	r.log.Debug("Removing rule", "index", rule.Index, "username", rule.Username)

	if err := r.filter.Delete(rule); err != nil {
		var tokenErr *services.InvalidTokenError
		if !errors.As(err, &tokenErr) {
			return fmt.Errorf("delete filter for rule %d: %w", rule.Index, err)
		}
		// The stored fields cannot describe a valid filter, so there is nothing to delete
		r.log.Warn("Skipped filter delete", "index", rule.Index, "error", err)
	}

	if err := r.shadow.Delete(rule.Index); err != nil {
		return fmt.Errorf("clean shadow file for rule %d: %w", rule.Index, err)
	}

	if err := r.cfg.Run(delObj); err != nil {
		return fmt.Errorf("delete rule %d: %w", rule.Index, err)
	}

	r.log.Info("Removed rule", "index", rule.Index, "username", rule.Username)
	return nil
}

// RemoveAllForUser removes every rule whose username equals username.
// It stops at the first failure and reports how many were removed.
func (r *Repository) RemoveAllForUser(all []models.Rule, username string) (int, error) {
	removed := 0
	for _, rule := range FindAllByUsername(all, username) {
		if err := r.Remove(rule); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// SetEnabled toggles the global time restriction flag
func (r *Repository) SetEnabled(enabled bool) error {
	if err := r.cfg.SetEnable(enabled); err != nil {
		return fmt.Errorf("set enable: %w", err)
	}
	r.log.Info("Time restriction flag updated", "enabled", enabled)
	return nil
}

// Enabled reads the global flag and the router's raw answer
func (r *Repository) Enabled() (bool, string, error) {
	enabled, raw, err := r.cfg.GetEnable()
	if err != nil {
		return false, "", fmt.Errorf("get enable: %w", err)
	}
	return enabled, raw, nil
}

// FilterTable lists the ebtables chain the DROP entries live in
func (r *Repository) FilterTable() ([]string, error) {
	lines, err := r.filter.List()
	if err != nil {
		return nil, fmt.Errorf("list filter table: %w", err)
	}
	return lines, nil
}

// FindByIndex returns the rule at index
func FindByIndex(all []models.Rule, index int) (models.Rule, bool) {
	for _, rule := range all {
		if rule.Index == index {
			return rule, true
		}
	}
	return models.Rule{}, false
}

// FindAllByUsername returns the rules whose username matches exactly
func FindAllByUsername(all []models.Rule, username string) []models.Rule {
	var found []models.Rule
	for _, rule := range all {
		if rule.Username == username {
			found = append(found, rule)
		}
	}
	return found
}
