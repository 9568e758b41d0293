package report

const mapTemplate = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{ title | escape }}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
html, body { height: 100%; margin: 0; }
#map { position: absolute; top: 3em; bottom: 0; width: 100%; }
h3 { margin: 0.5em; font-family: sans-serif; }
</style>
</head>
<body>
<h3 id="title">{{ title | escape }}</h3>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{ center_lat }}, {{ center_lon }}], {{ zoom }});
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 19,
  attribution: '&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a>'
}).addTo(map);
var points = {{ points_json }};
points.forEach(function (p) {
  L.circle([p.lat, p.lon], {
    radius: {{ radius }},
    color: '{{ color }}',
    fill: true,
    opacity: 1,
    fillOpacity: 1
  }).bindTooltip(p.label).addTo(map);
});
</script>
</body>
</html>
`

const indexTemplate = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>{{ heading | escape }}</title>
</head>
<body>
<h1>{{ heading | escape }}</h1>
<ul>
{% for e in entries %}
  <li>
    <span>{{ e.label }}: </span>
    <a href="{{ e.dir }}/Karte.html">Karte</a> -
    <a href="{{ e.dir }}/Adressen.txt">Adressen</a> -
    <a href="{{ e.dir }}/Koordinaten.txt">Koordinaten</a>
  </li>
{% endfor %}
</ul>
</body>
</html>
`
