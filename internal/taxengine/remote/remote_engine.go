package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"taxpoint/internal/port"
	"taxpoint/internal/rates"
	"taxpoint/internal/taxengine"
)

// Engine delegates the whole computation to an out-of-process
// implementation of the same algorithm, invoked as a subprocess that emits
// a single JSON result on stdout. Any non-zero exit, malformed payload, or
// timeout is a miss; callers fall through to the next tier.
// It implements port.TaxEngine.
type Engine struct {
	command string
	script  string
	timeout time.Duration
	calc    *taxengine.Calculator
}

// NewEngine creates the alternate out-of-process tax engine. The command is
// the interpreter (e.g. "python3") and script the program it runs.
func NewEngine(command, script string, timeout time.Duration, calc *taxengine.Calculator) *Engine {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Engine{command: command, script: script, timeout: timeout, calc: calc}
}

// result mirrors the JSON the alternate engine emits. A present error field
// marks an internal failure; the payload is then treated as a miss.
type result struct {
	Error               string  `json:"error"`
	State               string  `json:"state"`
	County              string  `json:"county"`
	City                string  `json:"city"`
	SpecialJurisdiction string  `json:"special_jurisdiction"`
	StateRate           float64 `json:"state_rate"`
	CountyRate          float64 `json:"county_rate"`
	CityRate            float64 `json:"city_rate"`
	SpecialRate         float64 `json:"special_rates"`
	CompositeRate       float64 `json:"composite_tax_rate"`
}

func (e *Engine) Resolve(ctx context.Context, lat, lon, subtotal float64) (*port.TaxOutcome, error) {
	if e.script == "" {
		return nil, fmt.Errorf("%w: no script configured", taxengine.ErrEngineMiss)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.command, e.script, "--",
		strconv.FormatFloat(lat, 'f', 10, 64),
		strconv.FormatFloat(lon, 'f', 10, 64),
		strconv.FormatFloat(subtotal, 'f', -1, 64),
		"2", // amount scale hint
	)
	cmd.Dir = filepath.Dir(e.script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v (stderr: %s)", taxengine.ErrEngineMiss, err, bytes.TrimSpace(stderr.Bytes()))
	}

	res, err := parseResult(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", taxengine.ErrEngineMiss, err)
	}

	comp := taxengine.Components{
		State:         res.State,
		County:        res.County,
		City:          res.City,
		StateRate:     res.StateRate,
		CountyRate:    res.CountyRate,
		CityRate:      res.CityRate,
		CompositeRate: res.CompositeRate,
	}
	if res.SpecialJurisdiction != "" && res.SpecialRate > 0 {
		comp.SpecialRates = []rates.SpecialRate{{Name: res.SpecialJurisdiction, Rate: res.SpecialRate}}
	}
	return e.calc.FromComponents(subtotal, comp), nil
}

// parseResult decodes and validates the subprocess payload. Only a
// well-formed result with a positive composite rate and no error marker is
// accepted.
func parseResult(payload []byte) (*result, error) {
	var res result
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("malformed payload: %v", err)
	}
	if res.Error != "" {
		return nil, fmt.Errorf("engine reported error: %s", res.Error)
	}
	if res.CompositeRate <= 0 {
		return nil, fmt.Errorf("payload carries no composite rate")
	}
	if res.State == "" {
		res.State = "NY"
	}
	return &res, nil
}
