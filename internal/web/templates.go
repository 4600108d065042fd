package web

import "html/template"

// Page templates are kept inline; the site surface is deliberately thin.
// The tour page carries the one piece of page-side machinery the engine
// depends on: the global open-card entry point and the inventory it
// renders cards from.

const tmplBase = `
{{define "head"}}<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:Georgia,serif;background:#f5f1e8;color:#1f3a2d;line-height:1.6}
header{padding:16px 24px;display:flex;justify-content:space-between;align-items:center;border-bottom:1px solid rgba(31,58,45,.1)}
header .brand{font-weight:700;font-size:18px;letter-spacing:.08em;text-transform:uppercase}
header a{color:#1f3a2d;text-decoration:none;margin-left:16px}
main{max-width:960px;margin:0 auto;padding:32px 24px}
h1{font-size:28px;margin-bottom:12px}
.tour-frame{position:fixed;inset:0;width:100%;height:100%;border:0}
.card-panel{position:fixed;right:24px;top:24px;width:320px;background:#fff;border-radius:12px;padding:24px;box-shadow:0 8px 40px rgba(0,0,0,.25);display:none;z-index:50}
.card-panel.open{display:block}
.card-panel .close{float:right;cursor:pointer;border:0;background:none;font-size:16px}
.card-panel .status{display:inline-block;padding:2px 10px;border-radius:999px;font-size:12px;font-weight:700}
.status.AVAILABLE{background:rgba(40,167,69,.15);color:#28a745}
.status.RESERVED{background:rgba(255,165,0,.15);color:#b87700}
.status.SOLD{background:rgba(255,0,0,.12);color:#c0392b}
.card-panel dl{margin-top:12px}
.card-panel dt{font-size:11px;text-transform:uppercase;letter-spacing:.08em;color:#777}
.card-panel dd{margin-bottom:8px;font-size:15px}
.admin-row,.admin-create{display:flex;gap:6px;align-items:center;margin-bottom:8px;flex-wrap:wrap}
.admin-row input,.admin-create input{padding:4px 6px;border:1px solid rgba(31,58,45,.3);border-radius:4px;font:inherit;font-size:13px}
.admin-row button,.admin-create button{padding:4px 12px;cursor:pointer}
</style>
</head>{{end}}
`

const tmplHome = `
{{define "home"}}{{template "head" .}}
<body>
<header>
  <div class="brand">Solterra</div>
  <nav><a href="/tour">Recorrido 360</a><a href="/admin">Admin</a></nav>
</header>
<main>
  <h1>Lotes residenciales en un entorno natural</h1>
  <p>Explora la disponibilidad de cada lote directamente sobre el mapa del
  recorrido virtual. Los colores reflejan el estado actual del inventario.</p>
  <p><a href="/tour">Ir al recorrido &rarr;</a></p>
</main>
</body>
</html>{{end}}
`

const tmplTour = `
{{define "tour"}}{{template "head" .}}
<body>
<iframe class="tour-frame" src="{{.TourEmbedURL}}" title="Recorrido Virtual 360"
  allowfullscreen allow="accelerometer; autoplay; gyroscope"></iframe>

<aside id="lot-card" class="card-panel" aria-live="polite">
  <button class="close" onclick="solterraCloseLotCard()">&#10005;</button>
  <h2 id="lc-number"></h2>
  <span id="lc-status" class="status"></span>
  <dl>
    <div><dt>Precio</dt><dd id="lc-price"></dd></div>
    <div><dt>Dimensiones</dt><dd id="lc-dimensions"></dd></div>
    <div><dt>Superficie</dt><dd id="lc-area"></dd></div>
  </dl>
  <p id="lc-description"></p>
</aside>

<script>
// Inventory is fetched once; the card panel renders from this data and
// never triggers navigation or an extra request.
var solterraLots = [];
fetch("/api/v1/lots")
  .then(function (r) { return r.json(); })
  .then(function (lots) { solterraLots = lots; })
  .catch(function (e) { console.warn("inventory unavailable", e); });

function solterraOpenLotCard(slug) {
  var lot = solterraLots.find(function (l) { return l.slug === slug; });
  if (!lot) { return; }
  document.getElementById("lc-number").textContent = "Lote " + lot.number;
  var status = document.getElementById("lc-status");
  status.textContent = lot.status;
  status.className = "status " + lot.status;
  document.getElementById("lc-price").textContent = lot.currency + " " + lot.price.toLocaleString();
  document.getElementById("lc-dimensions").textContent = lot.dimensions;
  document.getElementById("lc-area").textContent = lot.area + " m²";
  document.getElementById("lc-description").textContent = lot.description || "";
  document.getElementById("lot-card").classList.add("open");
}

function solterraCloseLotCard() {
  document.getElementById("lot-card").classList.remove("open");
}
</script>
</body>
</html>{{end}}
`

const tmplCard = `
{{define "card"}}{{template "head" .}}
<body>
<main>
  {{if not .Embed}}<p><a href="/">&larr; Volver</a></p>{{end}}
  <h1>Lote {{.Lot.Number}}</h1>
  <span class="status {{.Lot.Status}}">{{.Lot.Status}}</span>
  <dl>
    <div><dt>Precio</dt><dd>{{.Lot.Currency}} {{printf "%.0f" .Lot.Price}}</dd></div>
    <div><dt>Dimensiones</dt><dd>{{.Lot.Dimensions}}</dd></div>
    <div><dt>Superficie</dt><dd>{{printf "%.0f" .Lot.Area}} m&sup2;</dd></div>
  </dl>
  {{if .Lot.Description}}<p>{{.Lot.Description}}</p>{{end}}
</main>
</body>
</html>{{end}}
`

const tmplAdmin = `
{{define "admin"}}{{template "head" .}}
<body>
<header>
  <div class="brand">Solterra · Admin</div>
  <nav><a href="/">Inicio</a><a href="/tour">Recorrido 360</a></nav>
</header>
<main>
  <h1>Lotes</h1>
  {{range .Lots}}
  <form method="post" action="/admin/lots/{{.ID}}" class="admin-row">
    <input name="number" value="{{.Number}}" size="4">
    <input name="slug" value="{{.Slug}}" size="10">
    <input name="status" value="{{.Status}}" size="10">
    <input name="currency" value="{{.Currency}}" size="4">
    <input name="price" value="{{printf "%.0f" .Price}}" size="8">
    <input name="dimensions" value="{{.Dimensions}}" size="10">
    <input name="area" value="{{printf "%.0f" .Area}}" size="6">
    <input name="description" value="{{if .Description}}{{.Description}}{{end}}" size="20">
    <button type="submit">Guardar</button>
    <button type="submit" formaction="/admin/lots/{{.ID}}/delete">Eliminar</button>
  </form>
  {{end}}

  <h1>Nuevo lote</h1>
  <form method="post" action="/admin/lots" class="admin-create">
    <input name="number" placeholder="Lote" size="4">
    <input name="slug" placeholder="slug" size="10">
    <input name="status" placeholder="AVAILABLE" size="10">
    <input name="currency" placeholder="USD" size="4">
    <input name="price" placeholder="Precio" size="8">
    <input name="dimensions" placeholder="Dimensiones" size="10">
    <input name="area" placeholder="m²" size="6">
    <input name="description" placeholder="Descripción" size="20">
    <button type="submit">Crear</button>
  </form>
</main>
</body>
</html>{{end}}
`

// Templates parses every page template into one set.
func Templates() *template.Template {
	t := template.New("pages")
	for _, src := range []string{tmplBase, tmplHome, tmplTour, tmplCard, tmplAdmin} {
		t = template.Must(t.Parse(src))
	}
	return t
}
