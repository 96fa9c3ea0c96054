package rendergraph

import (
	"context"
	"fmt"
	"time"
)

// PassStats is the profiling record of one pass.
type PassStats struct {
	Name          string
	Draws         int
	TextureWrites int
	Duration      time.Duration
	Culled        bool
}

// Stats summarizes one Execute call.
type Stats struct {
	Passes        []PassStats
	Draws         int
	TextureWrites int
	Allocations   int
	Duration      time.Duration
}

// Execute culls unused passes, then runs the rest strictly in declaration
// order. Declared reads of transients must follow a write by an earlier pass.
// ctx is checked between passes.
func (g *Graph) Execute(ctx context.Context) (Stats, error) {
	var stats Stats
	start := time.Now()

	for _, p := range g.passes {
		if p.err != nil {
			return stats, fmt.Errorf("pass %q: %w", p.name, p.err)
		}
		if p.execute == nil {
			return stats, fmt.Errorf("pass %q: %w", p.name, ErrNoRenderFunc)
		}
		if err := g.checkHazards(p); err != nil {
			return stats, err
		}
	}

	culled := g.cull()
	written := make(map[TextureHandle]bool)
	for i, res := range g.resources {
		if res.imported {
			written[TextureHandle{id: i + 1}] = true
		}
	}

	for i, p := range g.passes {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		ps := PassStats{Name: p.name, Culled: culled[i]}
		if culled[i] {
			logger.Debugf("culled pass %q", p.name)
			stats.Passes = append(stats.Passes, ps)
			continue
		}

		for _, h := range p.reads() {
			if !written[h] {
				res, _ := g.lookup(h)
				return stats, fmt.Errorf("pass %q reads %q: %w", p.name, res.name, ErrReadBeforeWrite)
			}
		}

		for _, h := range p.writes() {
			res, _ := g.lookup(h)
			if res.kind == KindColor && res.color == nil {
				g.allocate(res)
				stats.Allocations++
			}
		}

		passStart := time.Now()
		rc := &RasterContext{graph: g, pass: p, stats: &ps}
		if err := p.execute(rc); err != nil {
			return stats, fmt.Errorf("pass %q: %w", p.name, err)
		}
		ps.Duration = time.Since(passStart)

		for _, h := range p.writes() {
			written[h] = true
		}

		stats.Passes = append(stats.Passes, ps)
		stats.Draws += ps.Draws
		stats.TextureWrites += ps.TextureWrites
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// cull marks cullable passes whose writes reach neither an imported resource
// nor a later surviving reader.
func (g *Graph) cull() []bool {
	culled := make([]bool, len(g.passes))
	needed := make(map[TextureHandle]bool)

	for i := len(g.passes) - 1; i >= 0; i-- {
		p := g.passes[i]

		keep := !p.cullable
		for _, h := range p.writes() {
			res, _ := g.lookup(h)
			if res.imported || needed[h] {
				keep = true
				break
			}
		}
		if !keep {
			culled[i] = true
			continue
		}

		// Reads of a surviving pass keep earlier producers alive; a write
		// that discards contents ends the dependency chain.
		for _, a := range p.attachments {
			if a.flags&AccessDiscard != 0 {
				delete(needed, a.handle)
			}
		}
		for _, h := range p.reads() {
			needed[h] = true
		}
	}
	return culled
}

func (g *Graph) checkHazards(p *pass) error {
	attached := make(map[TextureHandle]bool, len(p.attachments))
	for _, a := range p.attachments {
		attached[a.handle] = true
	}
	for _, u := range p.uses {
		if attached[u.handle] && u.flags&AccessRead != 0 {
			res, _ := g.lookup(u.handle)
			return fmt.Errorf("pass %q, %q: %w", p.name, res.name, ErrHazard)
		}
	}
	return nil
}
