// Package synthesis is the enrichment pipeline. Given a located record it
// runs the signal adapters in a fixed order (Capital, Code, Usage, social
// and news signals, People), folds their partial output into the record
// without clobbering known-good fields, rescores it and commits the whole
// result in one transaction.
//
// Field policy: an incoming non-empty value fills an empty field; an
// existing non-empty field is only overwritten by the adapter that owns it.
// Capital owns funding and verification, Code owns repository metrics,
// Usage owns on-chain metrics.
package synthesis

import (
	"context"
	"time"

	"fundflow/internal/apperrors"
	"fundflow/internal/logging"
	"fundflow/internal/project"
	"fundflow/internal/registry"
	"fundflow/internal/scoring"
	"fundflow/internal/signal"
	"fundflow/internal/signal/capital"
	"fundflow/internal/signal/code"
	"fundflow/internal/signal/news"
	"fundflow/internal/signal/people"
	"fundflow/internal/signal/social"
	"fundflow/internal/signal/usage"
	"fundflow/internal/storage"
)

// Engine runs the merge pipeline
type Engine struct {
	db      *storage.DB
	reg     *registry.Registry
	capital *capital.Adapter
	code    *code.Adapter
	usage   *usage.Adapter
	people  *people.Adapter
	news    *news.Adapter
	social  *social.Adapter
	logger  *logging.Logger
}

// New wires an engine
func New(
	db *storage.DB,
	reg *registry.Registry,
	capitalAdapter *capital.Adapter,
	codeAdapter *code.Adapter,
	usageAdapter *usage.Adapter,
	peopleAdapter *people.Adapter,
	newsAdapter *news.Adapter,
	socialAdapter *social.Adapter,
	logger *logging.Logger,
) *Engine {
	return &Engine{
		db:      db,
		reg:     reg,
		capital: capitalAdapter,
		code:    codeAdapter,
		usage:   usageAdapter,
		people:  peopleAdapter,
		news:    newsAdapter,
		social:  socialAdapter,
		logger:  logger,
	}
}

// pendingRound is a funding round extracted mid-pipeline, persisted with the
// final commit
type pendingRound struct {
	round     project.FundingRound
	investors []string
}

// Sync enriches the named project through every adapter and commits once.
// Re-invoking it converges: provenance entries and funding rounds are
// deduplicated, so the second run ends in the same state.
func (e *Engine) Sync(ctx context.Context, name string) (*project.Project, error) {
	store := storage.NewStore(e.db)

	canonical := e.reg.Resolve(name)
	p, err := store.GetProjectByName(canonical)
	if err != nil {
		return nil, err
	}
	if p == nil && canonical != name {
		p, err = store.GetProjectByName(name)
		if err != nil {
			return nil, err
		}
	}
	if p == nil {
		return nil, apperrors.New(apperrors.NotFound, "project not found: "+name)
	}

	run, err := store.BeginSyncRun(p.ID)
	if err != nil {
		e.logger.Warn("Sync run logging unavailable", map[string]interface{}{"error": err.Error()})
		run = nil
	}
	e.logger.Info("Sync started", map[string]interface{}{
		"project": p.Name,
		"run_id":  runID(run),
	})

	var rounds []pendingRound

	e.capitalStage(ctx, p, &rounds, run)
	e.codeStage(ctx, p, run)
	e.usageStage(ctx, p, run)
	e.socialStage(ctx, p, run)
	e.newsStage(ctx, p, run)
	e.peopleStage(ctx, p, run)

	// The grade must see the rounds this pass extracted, not just the stored
	// ones, or the first sync and the next would grade different records.
	if err := e.materializeRounds(store, p, rounds); err != nil {
		return nil, err
	}

	scoring.Apply(p, scoring.Score(p))
	p.LastGraded = time.Now().UTC()
	p.LastUpdated = time.Now().UTC()

	err = e.db.Transact(func(s *storage.Store) error {
		if err := s.UpdateProject(p); err != nil {
			return err
		}
		for i := range rounds {
			pr := &rounds[i]
			pr.round.ProjectID = p.ID
			if err := s.AddFundingRound(&pr.round); err != nil {
				return err
			}
			for _, invName := range pr.investors {
				inv, err := s.GetOrCreateInvestor(&project.Investor{
					Name: invName,
					Slug: registry.Slugify(invName),
					Tier: e.reg.InvestorTier(invName),
				})
				if err != nil {
					return err
				}
				if err := s.LinkRoundInvestor(pr.round.ID, inv.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if run != nil {
			_ = store.FinishSyncRun(run, "failed")
		}
		return nil, err
	}

	if run != nil {
		if err := store.FinishSyncRun(run, "success"); err != nil {
			e.logger.Warn("Failed to close sync run", map[string]interface{}{"error": err.Error()})
		}
	}

	// Reload so the returned record carries its persisted funding rounds.
	fresh, err := store.GetProjectByID(p.ID)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Sync completed", map[string]interface{}{
		"project":    fresh.Name,
		"score":      fresh.GradeScore,
		"grade":      fresh.GradeLetter,
		"confidence": fresh.DataConfidence,
		"run_id":     runID(run),
	})
	return fresh, nil
}

// capitalStage resolves the tracker id, folds detail fields in and extracts
// the funding summary. Capital is the verification authority.
func (e *Engine) capitalStage(ctx context.Context, p *project.Project, rounds *[]pendingRound, run *storage.SyncRun) {
	// The secondary tracker is the usual holder of the repository link.
	if p.RepoURL == "" {
		e.resolveRepoFromSecondary(ctx, p)
	}

	id := p.Provenance.IDs["cryptorank"]
	if id == "" {
		res := e.capital.ResolveID(ctx, p.Name, p.TokenSymbol)
		if res.OK() {
			id = res.Value
			p.Provenance.SetID("cryptorank", id)
			p.Verified = true
			p.VerifySource = "CryptoRank Institutional Hub"
		}
	}
	if id == "" {
		record(run, "capital", signal.StatusNoData)
		return
	}

	res := e.capital.Detail(ctx, id)
	record(run, "capital", res.Status)
	if !res.OK() {
		return
	}
	d := res.Value

	fillString(&p.Description, d.Description)
	fillString(&p.Website, d.Website)
	fillString(&p.SocialHandle, d.SocialHandle)
	fillString(&p.RepoURL, d.RepoURL)
	fillString(&p.DiscordURL, d.DiscordURL)
	fillString(&p.TelegramURL, d.TelegramURL)
	fillString(&p.Sector, d.Sector)
	fillString(&p.Category, d.Category)
	if p.Stage == "" {
		p.Stage = d.Stage
	}
	if d.Symbol != "" {
		p.TokenSymbol = d.Symbol
		p.HasToken = true
	}

	p.Verified = true
	if p.VerifySource == "" {
		p.VerifySource = capital.SourceName
	}
	p.Provenance.AddSource(capital.SourceName)

	if d.TotalRaisedUSD > 0 {
		announced := d.LastUpdated
		if announced.IsZero() {
			announced = time.Now().UTC().Truncate(24 * time.Hour)
		}
		*rounds = append(*rounds, pendingRound{
			round: project.FundingRound{
				Kind:        project.RoundOther,
				AmountUSD:   d.TotalRaisedUSD,
				AnnouncedAt: announced,
				Source:      capital.SourceName,
			},
			investors: d.Investors,
		})
	}
}

func (e *Engine) resolveRepoFromSecondary(ctx context.Context, p *project.Project) {
	id := p.SecondaryID
	if id == "" {
		res := e.capital.SearchSecondary(ctx, p.Name)
		if !res.OK() {
			return
		}
		id = res.Value.ID
	}

	res := e.capital.SecondaryDetail(ctx, id)
	if !res.OK() {
		return
	}
	fillString(&p.RepoURL, res.Value.RepoURL)
	fillString(&p.SecondaryID, res.Value.ID)
	fillString(&p.Description, res.Value.Description)
	p.Provenance.AddSource(capital.SecondarySourceName)
}

// codeStage owns repository metrics
func (e *Engine) codeStage(ctx context.Context, p *project.Project, run *storage.SyncRun) {
	if p.RepoURL == "" {
		record(run, "code", signal.StatusNoData)
		return
	}

	res := e.code.RepoStats(ctx, p.RepoURL)
	record(run, "code", res.Status)
	p.Provenance.SetSignal("code_signal", code.Signal(res))
	if !res.OK() {
		return
	}

	p.RepoStars = int64(res.Value.Stars)
	p.RepoForks = int64(res.Value.Forks)
	p.Provenance.AddSource(code.SourceName)
}

// usageStage owns on-chain metrics. Verification from this source requires
// an exact match; fuzzy containment never verifies.
func (e *Engine) usageStage(ctx context.Context, p *project.Project, run *storage.SyncRun) {
	res := e.usage.ProtocolStats(ctx, p.Name, p.TokenSymbol, p.Sector)
	record(run, "usage", res.Status)
	if !res.OK() {
		return
	}
	m := res.Value

	if m.TVLKnown {
		p.TVL = m.TVL
		p.TVLKnown = true
		p.TVL30dChange = m.TVL30dChange
	}
	if m.RevenueKnown {
		p.Revenue24h = m.Revenue24h
		p.RevenueKnown = true
	}
	if m.Exact && !p.Verified {
		p.Verified = true
		p.VerifySource = "DefiLlama / Institutional Trackers"
	}
	p.Provenance.AddSource(usage.SourceName)
}

func (e *Engine) socialStage(ctx context.Context, p *project.Project, run *storage.SyncRun) {
	if p.SocialHandle == "" {
		record(run, "social", signal.StatusNoData)
		return
	}

	res := e.social.UserMetrics(ctx, p.SocialHandle)
	record(run, "social", res.Status)
	if !res.OK() {
		return
	}
	p.SocialFollowers = int64(res.Value.Followers)
	p.Provenance.AddSource(social.SourceName)
}

func (e *Engine) newsStage(ctx context.Context, p *project.Project, run *storage.SyncRun) {
	sig := e.news.PressSignal(ctx, p.Name)
	if sig == news.SignalSilent {
		record(run, "news", signal.StatusNoData)
		return
	}
	record(run, "news", signal.StatusData)
	p.Provenance.SetSignal("news_signal", sig)
	p.Provenance.AddSource(news.SourceName)
}

func (e *Engine) peopleStage(ctx context.Context, p *project.Project, run *storage.SyncRun) {
	if p.Website == "" {
		record(run, "people", signal.StatusNoData)
		return
	}

	sig := e.people.QualitySignal(ctx, p.Website)
	if sig == people.SignalUnreachable {
		record(run, "people", signal.StatusFailure)
	} else {
		record(run, "people", signal.StatusData)
		p.Provenance.AddSource(people.SourceName)
	}
	p.Provenance.SetSignal("hiring_signal", sig)
}

// materializeRounds appends the pipeline's pending rounds, with their
// registry-classified investors, onto the in-memory record. Rounds already
// stored under the (project, announce date, amount) dedup triple are loaded
// on the record and skipped here.
func (e *Engine) materializeRounds(store *storage.Store, p *project.Project, rounds []pendingRound) error {
	for _, pr := range rounds {
		seen, err := store.HasFundingRound(p.ID, pr.round.AnnouncedAt, pr.round.AmountUSD)
		if err != nil {
			return err
		}
		if seen {
			continue
		}
		r := pr.round
		r.ProjectID = p.ID
		for _, name := range pr.investors {
			r.Investors = append(r.Investors, project.Investor{
				Name: name,
				Slug: registry.Slugify(name),
				Tier: e.reg.InvestorTier(name),
			})
		}
		p.FundingRounds = append(p.FundingRounds, r)
	}
	return nil
}

// fillString sets dst only when it is empty and the incoming value is not
func fillString(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func record(run *storage.SyncRun, adapter string, status signal.Status) {
	if run != nil {
		run.Adapters[adapter] = string(status)
	}
}

func runID(run *storage.SyncRun) string {
	if run == nil {
		return ""
	}
	return run.ID
}
