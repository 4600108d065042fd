package tour

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/solterra-dev/solterra/api/internal/logger"
)

// viewerHandleVar is the page global the probe scripts stash the located
// viewer object under, so later get/set/call evaluations address the same
// instance the probe validated.
const viewerHandleVar = "window.__solterraViewerHandle"

// opTimeout bounds a single evaluation against the page. Kept short: the
// viewer interface is synchronous and an op that hangs means the page is
// gone.
const opTimeout = 5 * time.Second

// Bridge hosts the tour page in a headless browser and exposes the
// embedded viewer runtime through the Viewer and StateSource interfaces.
// It is the production counterpart of the scripted fakes used in tests.
type Bridge struct {
	log     *logger.Logger
	pageURL string

	ctx    context.Context
	cancel context.CancelFunc
}

// NewBridge creates a Bridge for the given tour page address.
func NewBridge(pageURL string, log *logger.Logger) *Bridge {
	return &Bridge{
		log:     log,
		pageURL: pageURL,
	}
}

// Start launches the browser and navigates to the tour page. The viewer
// inside the page initializes on its own schedule; discovery polls for it
// afterwards via the providers.
func (b *Bridge) Start(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	b.ctx = browserCtx
	b.cancel = func() {
		cancelCtx()
		cancelAlloc()
	}

	if err := chromedp.Run(browserCtx, chromedp.Navigate(b.pageURL)); err != nil {
		b.cancel()
		return fmt.Errorf("failed to open tour page %s: %w", b.pageURL, err)
	}

	b.log.Info("Tour page loaded", map[string]interface{}{
		"url": b.pageURL,
	})

	return nil
}

// Stop tears the browser down.
func (b *Bridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
}

// InjectCardPanel installs the open-card entry point and its overlay panel
// into the driven page. The external tour page knows nothing about lot
// cards, so the window.solterraOpenLotCard global the click bindings
// invoke has to be provided here, in the same document the viewer lives
// in. Safe to call more than once; an existing installation is left alone.
func (b *Bridge) InjectCardPanel(ctx context.Context, inventoryURL string) error {
	var status string
	if err := b.evaluate(ctx, cardSupportScript(inventoryURL), &status); err != nil {
		return fmt.Errorf("failed to install card panel: %w", err)
	}

	b.log.Info("Card panel installed on tour page", map[string]interface{}{
		"status": status,
	})
	return nil
}

// cardSupportScript builds the bootstrap that defines the open-card
// global and its panel. Inventory is fetched once from the given endpoint;
// the panel renders from that data and never navigates the page.
func cardSupportScript(inventoryURL string) string {
	return fmt.Sprintf(`(function() {
	if (window.solterraOpenLotCard) { return "present"; }

	var lots = [];
	fetch(%s)
		.then(function (r) { return r.json(); })
		.then(function (l) { lots = l; })
		.catch(function () {});

	var panel = document.createElement("div");
	panel.id = "solterra-lot-card";
	panel.style.cssText = "position:fixed;right:24px;top:24px;width:300px;background:#fff;border-radius:12px;padding:20px;box-shadow:0 8px 40px rgba(0,0,0,.25);display:none;z-index:2147483647;font-family:Georgia,serif;color:#1f3a2d";
	document.body.appendChild(panel);

	window.solterraCloseLotCard = function () {
		panel.style.display = "none";
	};

	window.solterraOpenLotCard = function (slug) {
		var lot = lots.find(function (l) { return l.slug === slug; });
		if (!lot) { return; }

		panel.innerHTML = "";
		var close = document.createElement("button");
		close.textContent = "✕";
		close.style.cssText = "float:right;border:0;background:none;cursor:pointer;font-size:16px";
		close.onclick = window.solterraCloseLotCard;
		panel.appendChild(close);

		var title = document.createElement("h2");
		title.textContent = "Lote " + lot.number;
		panel.appendChild(title);

		var status = document.createElement("p");
		status.textContent = lot.status;
		panel.appendChild(status);

		var price = document.createElement("p");
		price.textContent = lot.currency + " " + lot.price.toLocaleString();
		panel.appendChild(price);

		var dims = document.createElement("p");
		dims.textContent = lot.dimensions + " / " + lot.area + " m²";
		panel.appendChild(dims);

		if (lot.description) {
			var desc = document.createElement("p");
			desc.textContent = lot.description;
			panel.appendChild(desc);
		}

		panel.style.display = "block";
	};

	return "installed";
})()`, strconv.Quote(inventoryURL))
}

// Providers returns the discovery strategies in priority order: the
// globally registered instance-id list first, then the well-known
// container identifiers.
func (b *Bridge) Providers() []ViewerProvider {
	return []ViewerProvider{
		&instanceListProvider{bridge: b},
		&containerProvider{bridge: b, ids: []string{
			"krpanoContainer",
			"krpanoSWFObject",
			"krpano",
		}},
	}
}

// PageState reads the host page's embedded initial-state payload.
// Implements StateSource.
func (b *Bridge) PageState(ctx context.Context) ([]byte, error) {
	var payload string
	err := b.evaluate(ctx, `JSON.stringify(window.__NEXT_DATA__ || null)`, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded page state: %w", err)
	}
	if payload == "" || payload == "null" {
		return nil, nil
	}
	return []byte(payload), nil
}

// Get implements Viewer by evaluating against the stashed handle.
func (b *Bridge) Get(path string) (string, error) {
	expr := fmt.Sprintf(`(function() {
		var v = %s;
		if (!v || typeof v.get !== 'function') { throw new Error('viewer gone'); }
		var r = v.get(%s);
		return (r === null || r === undefined) ? "" : String(r);
	})()`, viewerHandleVar, strconv.Quote(path))

	var result string
	if err := b.evaluate(b.ctx, expr, &result); err != nil {
		return "", fmt.Errorf("%w: get %s: %v", ErrViewerGone, path, err)
	}
	return result, nil
}

// Set implements Viewer.
func (b *Bridge) Set(path, value string) error {
	expr := fmt.Sprintf(`(function() {
		var v = %s;
		if (!v || typeof v.set !== 'function') { throw new Error('viewer gone'); }
		v.set(%s, %s);
		return "";
	})()`, viewerHandleVar, strconv.Quote(path), strconv.Quote(value))

	var discard string
	if err := b.evaluate(b.ctx, expr, &discard); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrViewerGone, path, err)
	}
	return nil
}

// Call implements Viewer.
func (b *Bridge) Call(script string) error {
	expr := fmt.Sprintf(`(function() {
		var v = %s;
		if (!v || typeof v.call !== 'function') { throw new Error('viewer gone'); }
		v.call(%s);
		return "";
	})()`, viewerHandleVar, strconv.Quote(script))

	var discard string
	if err := b.evaluate(b.ctx, expr, &discard); err != nil {
		return fmt.Errorf("%w: call: %v", ErrViewerGone, err)
	}
	return nil
}

// evaluate runs one expression in the page with the per-op timeout.
func (b *Bridge) evaluate(ctx context.Context, expr string, result *string) error {
	if b.ctx == nil {
		return ErrViewerGone
	}
	if ctx == nil {
		ctx = b.ctx
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return chromedp.Run(opCtx, chromedp.Evaluate(expr, result))
}

// instanceListProvider locates the viewer through the instance registry
// the viewer runtime maintains on the page (a list of auto-generated
// instance ids).
type instanceListProvider struct {
	bridge *Bridge
}

func (p *instanceListProvider) Name() string { return "instance-list" }

func (p *instanceListProvider) Probe(ctx context.Context) (Viewer, error) {
	expr := fmt.Sprintf(`(function() {
		if (!window.listKrpanoInstance || !window.listKrpanoInstance.length) { return "absent"; }
		var id = window.listKrpanoInstance[0];
		var obj = document.getElementById(id) || window[id];
		if (!obj || typeof obj.get !== 'function') { return "not-ready"; }
		%s = obj;
		return "ok";
	})()`, viewerHandleVar)

	return p.bridge.probe(ctx, expr)
}

// containerProvider locates the viewer through well-known container
// element ids and their window-global fallbacks.
type containerProvider struct {
	bridge *Bridge
	ids    []string
}

func (p *containerProvider) Name() string { return "container-ids" }

func (p *containerProvider) Probe(ctx context.Context) (Viewer, error) {
	idList := ""
	for i, id := range p.ids {
		if i > 0 {
			idList += ","
		}
		idList += strconv.Quote(id)
	}

	expr := fmt.Sprintf(`(function() {
		var ids = [%s];
		for (var i = 0; i < ids.length; i++) {
			var obj = document.getElementById(ids[i]) || window[ids[i]];
			if (obj && typeof obj.get === 'function') {
				%s = obj;
				return "ok";
			}
		}
		return "absent";
	})()`, idList, viewerHandleVar)

	return p.bridge.probe(ctx, expr)
}

// probe runs a location script; "ok" means the handle global now points at
// a viewer object with a callable get.
func (b *Bridge) probe(ctx context.Context, expr string) (Viewer, error) {
	var status string
	if err := b.evaluate(ctx, expr, &status); err != nil {
		return nil, err
	}
	if status != "ok" {
		return nil, fmt.Errorf("viewer not located: %s", status)
	}
	return b, nil
}
