// Package profile switches a player between named configuration profiles.
// A profile is realized by a package whose manifest declares that profile;
// switching installs the package and records the active profile in the
// ledger.
package profile

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/confdeck/confdeck/internal/engine"
	"github.com/confdeck/confdeck/internal/fail"
	"github.com/confdeck/confdeck/internal/ledger"
	"github.com/confdeck/confdeck/internal/logging"
	"github.com/confdeck/confdeck/internal/model"
	"github.com/confdeck/confdeck/internal/repository"
)

// Manager coordinates profile listing and switching.
type Manager struct {
	repo   *repository.Repository
	ledger *ledger.Store
	engine *engine.Engine
	log    zerolog.Logger
}

// NewManager wires a Manager. All dependencies are required.
func NewManager(repo *repository.Repository, store *ledger.Store, eng *engine.Engine) *Manager {
	return &Manager{
		repo:   repo,
		ledger: store,
		engine: eng,
		log:    logging.GetLogger("profile"),
	}
}

// List returns the profiles available for player, sorted by name. A profile
// is available when some package in the repository provides it.
func (m *Manager) List(player model.Player) ([]model.Profile, error) {
	packages, err := m.repo.List()
	if err != nil {
		return nil, err
	}
	seen := make(map[model.Profile]struct{})
	for _, pkg := range packages {
		if pkg.Player == player {
			seen[pkg.Profile] = struct{}{}
		}
	}
	profiles := make([]model.Profile, 0, len(seen))
	for p := range seen {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i] < profiles[j] })
	return profiles, nil
}

// Active returns the player's recorded profile. ok is false when no switch
// has been recorded yet.
func (m *Manager) Active(player model.Player) (model.Profile, bool, error) {
	doc, err := m.ledger.Load()
	if err != nil {
		return "", false, err
	}
	active, ok := doc.ActiveProfiles[player]
	return active, ok, nil
}

// Switch installs the package providing the requested profile and records it
// as the player's active profile. The previously active profile's package is
// uninstalled first so the two never contend for the same target paths; its
// files are snapshotted by that uninstall. A dry run performs no retirement
// but evaluates the install as if it had happened, so the prediction matches
// the real switch. The install result is returned so callers can report the
// snapshot taken, if any.
func (m *Manager) Switch(player model.Player, profile model.Profile, targetDir string, mode model.Mode) (engine.InstallResult, error) {
	pkg, err := m.find(player, profile)
	if err != nil {
		return engine.InstallResult{}, err
	}
	retiring, err := m.retireTarget(player, profile)
	if err != nil {
		return engine.InstallResult{}, err
	}
	if mode.DryRun() {
		var replacing []string
		if retiring != "" {
			replacing = append(replacing, retiring)
		}
		return m.engine.InstallReplacing(pkg, targetDir, mode, replacing...)
	}
	if retiring != "" {
		m.log.Info().
			Str("player", string(player)).
			Str("package", retiring).
			Str("to", string(profile)).
			Msg("retiring previous profile package")
		if _, err := m.engine.Uninstall(retiring, model.ModeApply); err != nil {
			return engine.InstallResult{}, err
		}
	}
	result, err := m.engine.Install(pkg, targetDir, mode)
	if err != nil {
		return engine.InstallResult{}, err
	}
	if err := m.recordActive(player, profile); err != nil {
		// The install itself succeeded; losing the active-profile marker is
		// recoverable by switching again.
		m.log.Warn().Err(err).
			Str("player", string(player)).
			Str("profile", string(profile)).
			Msg("failed to record active profile")
	}
	return result, nil
}

func (m *Manager) find(player model.Player, profile model.Profile) (model.Package, error) {
	packages, err := m.repo.List()
	if err != nil {
		return model.Package{}, err
	}
	for _, pkg := range packages {
		if pkg.Player == player && pkg.Profile == profile {
			return pkg, nil
		}
	}
	return model.Package{}, fail.Newf(fail.KindValidation,
		"no package provides profile %q for %s", profile, player)
}

// retireTarget names the installed package backing the player's current
// profile, when one is recorded, still in the repository, installed, and
// different from the requested profile. An empty name means nothing to
// retire.
func (m *Manager) retireTarget(player model.Player, next model.Profile) (string, error) {
	doc, err := m.ledger.Load()
	if err != nil {
		return "", err
	}
	prior, ok := doc.ActiveProfiles[player]
	if !ok || prior == next {
		return "", nil
	}
	pkg, err := m.find(player, prior)
	if err != nil {
		// The prior profile's package left the repository; nothing to retire.
		return "", nil
	}
	if _, installed := doc.Installations[pkg.Name]; !installed {
		return "", nil
	}
	return pkg.Name, nil
}

func (m *Manager) recordActive(player model.Player, profile model.Profile) error {
	doc, err := m.ledger.Load()
	if err != nil {
		return err
	}
	if doc.ActiveProfiles == nil {
		doc.ActiveProfiles = make(map[model.Player]model.Profile)
	}
	doc.ActiveProfiles[player] = profile
	return m.ledger.Save(doc)
}
