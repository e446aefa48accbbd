package cli

import (
	"fmt"
	"log"

	"college-exam-system/internal/config"
	"college-exam-system/internal/domain"
	"college-exam-system/internal/infra/flatfile"
	"college-exam-system/internal/store"
)

// workspace is the application context of one CLI invocation: the config,
// the entity store and the flat-file repository it is loaded from and saved to.
type workspace struct {
	cfg   config.Config
	store *store.Store
	repo  *flatfile.Repository
}

func openWorkspace() (*workspace, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	dir := cfg.Data.Dir
	if dataDir != "" {
		dir = dataDir
	}

	ws := &workspace{cfg: cfg, store: store.New(), repo: flatfile.NewRepository(dir)}
	if err := ws.repo.Load(ws.store); err != nil {
		// Saving on top of a partial load would drop the unreadable records.
		return nil, fmt.Errorf("load data from %s: %w", dir, err)
	}
	ws.bootstrapAdmin()
	return ws, nil
}

func (w *workspace) bootstrapAdmin() {
	if len(w.store.Accounts(domain.RoleAdmin)) > 0 || w.cfg.BootstrapAdmin.Username == "" {
		return
	}
	admin := domain.Account{
		ID:       w.cfg.BootstrapAdmin.ID,
		Name:     w.cfg.BootstrapAdmin.Name,
		Username: w.cfg.BootstrapAdmin.Username,
		Password: w.cfg.BootstrapAdmin.Password,
		Role:     domain.RoleAdmin,
	}
	if err := w.store.AddAccount(admin); err != nil {
		log.Printf("bootstrap admin skipped: %v", err)
		return
	}
	log.Printf("no admin accounts found, created %s", admin.Username)
}

func (w *workspace) save() error {
	if err := w.repo.Save(w.store); err != nil {
		return fmt.Errorf("save data to %s: %w", w.repo.Dir(), err)
	}
	return nil
}

// withWorkspace loads the data once, runs fn and saves once when mutate is set.
func withWorkspace(mutate bool, fn func(w *workspace) error) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	if err := fn(ws); err != nil {
		return err
	}
	if !mutate {
		return nil
	}
	return ws.save()
}
