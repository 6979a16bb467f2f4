// Package discovery locates or creates exactly one canonical record for a
// free-form query. The cascade is strictly ordered and short-circuits on
// first success: local store, tracker search, kind-specific shortcuts, then
// the mandatory web-forensic fallback. Idempotence against concurrent
// discoveries rests on the store's name/slug uniqueness plus a re-check
// immediately before every insert.
package discovery

import (
	"context"
	"time"

	"fundflow/internal/apperrors"
	"fundflow/internal/classify"
	"fundflow/internal/config"
	"fundflow/internal/forensic"
	"fundflow/internal/logging"
	"fundflow/internal/project"
	"fundflow/internal/registry"
	"fundflow/internal/signal/capital"
	"fundflow/internal/storage"
	"fundflow/internal/synthesis"
)

// forensicSeedConfidence is the confidence a forensic-only record starts
// with. It sits below the grading floor so these records stay ungraded
// until a tracker confirms them.
const forensicSeedConfidence = 40

// Orchestrator runs the discovery cascade
type Orchestrator struct {
	db       *storage.DB
	reg      *registry.Registry
	capital  *capital.Adapter
	research *forensic.Researcher
	engine   *synthesis.Engine
	cfg      config.DiscoveryConfig
	logger   *logging.Logger
}

// New wires an orchestrator
func New(
	db *storage.DB,
	reg *registry.Registry,
	capitalAdapter *capital.Adapter,
	researcher *forensic.Researcher,
	engine *synthesis.Engine,
	cfg config.DiscoveryConfig,
	logger *logging.Logger,
) *Orchestrator {
	return &Orchestrator{
		db:       db,
		reg:      reg,
		capital:  capitalAdapter,
		research: researcher,
		engine:   engine,
		cfg:      cfg,
		logger:   logger,
	}
}

// Discover returns exactly one record for the query, creating it if no
// source has it yet. A NOT_FOUND error means every cascade stage was
// exhausted.
func (o *Orchestrator) Discover(ctx context.Context, query string) (*project.Project, error) {
	kind, clean := classify.Classify(query)
	terms := ExpandTerms(query, clean, o.minTermLength())

	o.logger.Info("Discovery started", map[string]interface{}{
		"query": query,
		"kind":  kind.String(),
		"terms": terms,
	})

	store := storage.NewStore(o.db)

	// Stage 1: local store. A hit that has already been graded is returned
	// as-is with no external calls; an ungraded hit is enriched first.
	for _, term := range terms {
		for _, name := range []string{o.reg.Resolve(term), term} {
			p, err := store.GetProjectByName(name)
			if err != nil {
				return nil, err
			}
			if p != nil {
				o.logger.Info("Discovery hit local store", map[string]interface{}{"project": p.Name})
				return o.settle(ctx, p)
			}
		}
	}

	// Stage 2: tracker search per variant, rate-limit delay between calls.
	for i, term := range terms {
		if i > 0 {
			if err := o.pause(ctx); err != nil {
				return nil, err
			}
		}
		p, err := o.discoverViaTracker(ctx, store, term)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	// Stage 3: kind shortcuts against stored links.
	switch kind {
	case classify.KindDomain:
		p, err := store.FindProjectByWebsite(clean)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return o.settle(ctx, p)
		}
	case classify.KindHandle:
		p, err := store.FindProjectByHandle(clean)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return o.settle(ctx, p)
		}
	}

	// Stage 4: forensic fallback.
	for _, term := range terms {
		p, err := o.discoverViaForensics(ctx, store, term, kind)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	return nil, apperrors.New(apperrors.NotFound, "no source has a record for: "+query)
}

// discoverViaTracker searches the secondary tracker for a term and creates a
// verified record from the top hit
func (o *Orchestrator) discoverViaTracker(ctx context.Context, store *storage.Store, term string) (*project.Project, error) {
	res := o.capital.SearchSecondary(ctx, term)
	if !res.OK() {
		return nil, nil
	}
	top := res.Value

	// Re-check by the candidate's name before inserting; another discovery
	// may have raced us here.
	existing, err := store.GetProjectByName(top.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return o.settle(ctx, existing)
	}

	p := &project.Project{
		Name:         top.Name,
		Slug:         registry.Slugify(top.Name),
		TokenSymbol:  top.Symbol,
		HasToken:     top.Symbol != "",
		SecondaryID:  top.ID,
		Verified:     true,
		VerifySource: "CoinGecko Tracker",
	}
	if detail := o.capital.SecondaryDetail(ctx, top.ID); detail.OK() {
		p.RepoURL = detail.Value.RepoURL
		p.Sector = detail.Value.PlatformID
		p.Description = detail.Value.Description
	}
	p.Provenance.AddSource(capital.SecondarySourceName)

	if err := store.CreateProject(p); err != nil {
		if apperrors.HasCode(err, apperrors.ConflictOnCreate) {
			return o.syncExisting(ctx, store, top.Name)
		}
		return nil, err
	}

	o.logger.Info("Discovery created tracker record", map[string]interface{}{
		"project": p.Name,
		"source":  capital.SecondarySourceName,
	})
	return o.engine.Sync(ctx, p.Name)
}

// discoverViaForensics assembles an identity from the open web and creates a
// low-confidence record
func (o *Orchestrator) discoverViaForensics(ctx context.Context, store *storage.Store, term string, kind classify.Kind) (*project.Project, error) {
	id := o.research.Research(ctx, term, kind)
	name := id.Name
	if name == "" {
		name = term
	}
	slug := registry.Slugify(name)

	existing, err := store.GetProjectBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return o.settle(ctx, existing)
	}

	p := &project.Project{
		Name:           name,
		Slug:           slug,
		Website:        id.Website,
		SocialHandle:   id.SocialHandle,
		RepoURL:        id.RepoURL,
		DiscordURL:     id.DiscordURL,
		TelegramURL:    id.TelegramURL,
		Description:    id.Description,
		Sector:         id.SectorHint,
		Stage:          project.StageDevelopment,
		DataConfidence: forensicSeedConfidence,
		Verified:       false,
		VerifySource:   "Deep Forensic Mesh via " + kind.String(),
	}
	if p.Description == "" {
		p.Description = "Automatically discovered project: " + name
	}
	p.Provenance.AddSource(forensic.SourceName)
	if id.Hiring {
		p.Provenance.SetSignal("hiring_signal", "Hiring")
	}
	if id.LinkedInURL != "" {
		p.Provenance.SetID("linkedin", id.LinkedInURL)
	}

	if err := store.CreateProject(p); err != nil {
		if apperrors.HasCode(err, apperrors.ConflictOnCreate) {
			return o.syncExisting(ctx, store, name)
		}
		return nil, err
	}

	o.logger.Info("Discovery created forensic record", map[string]interface{}{
		"project": p.Name,
		"website": p.Website,
		"hiring":  id.Hiring,
	})
	return o.engine.Sync(ctx, p.Name)
}

// settle finishes a cascade hit: an already-graded record is returned
// without touching any external source, a never-graded one goes through the
// merge pipeline first
func (o *Orchestrator) settle(ctx context.Context, p *project.Project) (*project.Project, error) {
	if !p.LastGraded.IsZero() {
		return p, nil
	}
	return o.engine.Sync(ctx, p.Name)
}

func (o *Orchestrator) syncExisting(ctx context.Context, store *storage.Store, name string) (*project.Project, error) {
	existing, err := store.GetProjectByName(name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.New(apperrors.NotFound, "record vanished after create conflict: "+name)
	}
	return o.settle(ctx, existing)
}

func (o *Orchestrator) pause(ctx context.Context) error {
	delay := o.cfg.SearchDelay()
	if delay <= 0 {
		return nil
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (o *Orchestrator) minTermLength() int {
	if o.cfg.MinTermLength <= 0 {
		return 3
	}
	return o.cfg.MinTermLength
}
