package geodesy

import (
	"fmt"
	"github.com/pebbe/proj/v5"
	"github.com/rotblauer/osgridd/params"
	"sync"
)

// ProjTransformer runs params.ProjPipeline through PROJ. One compiled
// pipeline serves all calls; PROJ transformation objects are not safe for
// concurrent use, so a mutex serializes them.
type ProjTransformer struct {
	mu  sync.Mutex
	ctx *proj.Context
	pj  *proj.PJ
}

// NewProjTransformer compiles the National Grid pipeline.
// Callers own the returned transformer and should Close it when done.
func NewProjTransformer() (*ProjTransformer, error) {
	ctx := proj.NewContext()
	pj, err := ctx.Create(params.ProjPipeline)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("compile %s <-> %s pipeline: %w", params.SourceCRS, params.TargetCRS, err)
	}
	return &ProjTransformer{ctx: ctx, pj: pj}, nil
}

func (t *ProjTransformer) ToLatLng(ea, no float64) (lat, lng float64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// Pipeline axis order is x/y: longitude comes back first.
	u, v, _, _, err := t.pj.Trans(proj.Fwd, ea, no, 0, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("transform to %s: %w", params.TargetCRS, err)
	}
	return v, u, nil
}

func (t *ProjTransformer) ToNationalGrid(lat, lng float64) (ea, no float64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	u, v, _, _, err := t.pj.Trans(proj.Inv, lng, lat, 0, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("transform to %s: %w", params.SourceCRS, err)
	}
	return u, v, nil
}

// Close releases the PROJ objects. The transformer must not be used after.
func (t *ProjTransformer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pj.Close()
	t.ctx.Close()
}
