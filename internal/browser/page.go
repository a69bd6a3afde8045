// Package browser drives a Chrome instance over CDP (go-rod) so region sizes
// can be measured from the real page layout the story is embedded in.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"scrollstory/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// Config holds browser configuration.
type Config struct {
	DebuggerURL         string   `yaml:"debugger_url" json:"debugger_url"`
	Launch              []string `yaml:"launch" json:"launch"`
	Headless            bool     `yaml:"headless" json:"headless"`
	ViewportWidth       int      `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight      int      `yaml:"viewport_height" json:"viewport_height"`
	NavigationTimeoutMs int      `yaml:"navigation_timeout_ms" json:"navigation_timeout_ms"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            true,
		ViewportWidth:       1440,
		ViewportHeight:      900,
		NavigationTimeoutMs: 30000,
	}
}

// GetViewportWidth returns viewport width.
func (c Config) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1440
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c Config) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 900
	}
	return c.ViewportHeight
}

// NavigationTimeout returns the navigation timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// Page is one open page used for layout queries.
type Page struct {
	cfg      Config
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	ctx      context.Context
}

// Open connects to (or launches) a browser and navigates to url.
func Open(ctx context.Context, cfg Config, url string) (*Page, error) {
	p := &Page{cfg: cfg, ctx: ctx}

	controlURL := cfg.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(cfg.Headless)
		if len(cfg.Launch) > 0 {
			l = l.Bin(cfg.Launch[0])
			for _, rawFlag := range cfg.Launch[1:] {
				flagStr := strings.TrimLeft(rawFlag, "-")
				name, val, hasVal := strings.Cut(flagStr, "=")
				if hasVal {
					l = l.Set(flags.Flag(name), val)
				} else {
					l = l.Set(flags.Flag(name))
				}
			}
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
		p.launcher = l
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		p.killLauncher()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	p.browser = b

	page, err := b.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}
	p.page = page

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.GetViewportWidth(),
		Height:            cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		logging.Get(logging.CategoryRegion).Warn("failed to set viewport: %v", err)
	}

	if err := page.Timeout(cfg.NavigationTimeout()).WaitLoad(); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("wait for %s: %w", url, err)
	}
	logging.Get(logging.CategoryRegion).Info("measuring layout from %s", url)
	return p, nil
}

const measureJS = `(id) => {
	const el = document.getElementById(id);
	if (!el) return null;
	return {w: el.offsetWidth, h: el.offsetHeight};
}`

// MeasureElement returns the offset size of #id.
func (p *Page) MeasureElement(id string) (float64, float64, bool, error) {
	raw, err := p.eval(measureJS, id)
	if err != nil {
		return 0, 0, false, err
	}
	var box *struct {
		W float64 `json:"w"`
		H float64 `json:"h"`
	}
	if err := json.Unmarshal(raw, &box); err != nil {
		return 0, 0, false, fmt.Errorf("decode size: %w", err)
	}
	if box == nil {
		return 0, 0, false, nil
	}
	return box.W, box.H, true, nil
}

// InnerHeight returns window.innerHeight.
func (p *Page) InnerHeight() (float64, error) {
	raw, err := p.eval(`() => window.innerHeight`)
	if err != nil {
		return 0, err
	}
	var h float64
	if err := json.Unmarshal(raw, &h); err != nil {
		return 0, fmt.Errorf("decode inner height: %w", err)
	}
	return h, nil
}

// SetViewport resizes the emulated window; callers re-materialize afterwards.
func (p *Page) SetViewport(width, height int) error {
	return proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1.0,
	}.Call(p.page)
}

func (p *Page) eval(js string, args ...interface{}) ([]byte, error) {
	if p.page == nil {
		return nil, errors.New("page not open")
	}
	res, err := p.page.Context(p.ctx).Evaluate(rod.Eval(js, args...))
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	return res.Value.MarshalJSON()
}

// Close closes the page and the browser if this process launched it.
func (p *Page) Close() error {
	var err error
	if p.page != nil {
		err = p.page.Close()
		p.page = nil
	}
	if p.launcher != nil && p.browser != nil {
		if cerr := p.browser.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	p.killLauncher()
	return err
}

func (p *Page) killLauncher() {
	if p.launcher != nil {
		p.launcher.Kill()
		p.launcher = nil
	}
}
