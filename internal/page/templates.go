package page

import "html/template"

// Fragment templates, one per section of the composed document. Every
// inline style element carries the per-response CSP nonce. Markup stays
// minimal: data values, band colors, and the section scaffolding.
var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"glyph": statusGlyph,
	"f0":    wholeNumber,
}).Parse(`
{{define "head"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>herecast</title>
<style nonce="{{.Nonce}}">
body{font-family:system-ui,sans-serif;max-width:52rem;margin:0 auto;padding:0 1rem;background:#10141a;color:#e6e8eb}
h1{font-size:1.4rem}h2{font-size:1.1rem;border-bottom:1px solid #2a3038;padding-bottom:.2rem}
section{margin:1.2rem 0}
table{border-collapse:collapse}td,th{text-align:left;padding:.1rem .8rem .1rem 0;vertical-align:top}
.muted{color:#8b949e}.badge{display:inline-block;padding:.1rem .5rem;border-radius:.3rem;color:#10141a;font-weight:600}
.alert{border-left:3px solid #d29922;padding-left:.6rem;margin:.6rem 0}
.status td{padding-right:1.2rem}
.fragment-error{color:#f85149}
{{range .Bands}}.{{.Class}}{background:{{.Color}}}
{{end}}</style>
</head>
<body>
<header><h1>herecast</h1></header>
{{end}}

{{define "geolocation"}}<section id="geolocation">
<h2>Where you are</h2>
<table>
<tr><td class="muted">IP</td><td>{{.Geo.IP}}</td></tr>
{{if .Geo.ASN}}<tr><td class="muted">Network</td><td>AS{{.Geo.ASN}}{{if .Geo.ASOrg}} ({{.Geo.ASOrg}}){{end}}</td></tr>{{end}}
{{if .Geo.HasCoords}}<tr><td class="muted">Coordinates</td><td>{{.Geo.Coords}}</td></tr>{{end}}
{{if .Geo.City}}<tr><td class="muted">City</td><td>{{.Geo.City}}{{if .Geo.Region}}, {{.Geo.Region}}{{end}}{{if .Geo.PostalCode}} {{.Geo.PostalCode}}{{end}}</td></tr>{{end}}
{{if .Geo.Country}}<tr><td class="muted">Country</td><td>{{.Geo.Country}}{{if .Geo.Continent}} ({{.Geo.Continent}}){{end}}</td></tr>{{end}}
{{if .Geo.Timezone}}<tr><td class="muted">Timezone</td><td>{{.Geo.Timezone}}</td></tr>{{end}}
{{if .Geo.Colo}}<tr><td class="muted">Edge</td><td>{{.Geo.Colo}}</td></tr>{{end}}
{{if .Geo.TLSVersion}}<tr><td class="muted">TLS</td><td>{{.Geo.TLSVersion}}{{if .Geo.TLSCipher}} / {{.Geo.TLSCipher}}{{end}}</td></tr>{{end}}
<tr><td class="muted">Protocol</td><td>{{.Geo.Protocol}}</td></tr>
{{if .Geo.UserAgent}}<tr><td class="muted">Browser</td><td>{{.Geo.UserAgent}}</td></tr>{{end}}
</table>
</section>
{{end}}

{{define "current"}}<section id="current">
<h2>Current conditions</h2>
{{if not .View.HasData}}<p class="muted">Current conditions are not available right now.</p>{{else}}
{{with .View.Air}}
<p><span class="badge aqi-{{printf "%d" .Category}}">AQI {{.AQI}}</span> {{.Category}}{{if .DominantPollutant}} <span class="muted">(dominant: {{.DominantPollutant}})</span>{{end}}</p>
<table>
{{range .Pollutants}}<tr><td class="muted">{{.Label}}</td><td>{{printf "%.0f" .Index}}</td></tr>
{{end}}{{with .Temperature}}<tr><td class="muted">Temperature</td><td>{{printf "%.0f" .Fahrenheit}}&deg;F ({{printf "%.0f" .Celsius}}&deg;C)</td></tr>{{end}}
{{with .Humidity}}<tr><td class="muted">Humidity</td><td>{{f0 .}}%</td></tr>{{end}}
{{with .WindMph}}<tr><td class="muted">Wind</td><td>{{f0 .}} mph</td></tr>{{end}}
{{with .PressureHpa}}<tr><td class="muted">Pressure</td><td>{{f0 .}} hPa</td></tr>{{end}}
</table>
{{if .StationName}}<p class="muted">Station: {{if .StationURL}}<a href="{{.StationURL}}">{{.StationName}}</a>{{else}}{{.StationName}}{{end}}</p>{{end}}
{{end}}
{{with .View.Derived}}
{{if or .HeatIndexF .DewPointF .WindChillF}}<table>
{{with .HeatIndexF}}<tr><td class="muted">Feels like</td><td>{{f0 .}}&deg;F heat index</td></tr>{{end}}
{{with .WindChillF}}<tr><td class="muted">Feels like</td><td>{{f0 .}}&deg;F wind chill</td></tr>{{end}}
{{with .DewPointF}}<tr><td class="muted">Dew point</td><td>{{f0 .}}&deg;F</td></tr>{{end}}
</table>{{end}}
{{end}}
{{if .View.AirNow}}<table>
{{range .View.AirNow}}<tr><td class="muted">{{.ParameterName}}</td><td><span class="badge aqi-{{printf "%d" .Category.Band}}">{{.AQI}}</span> {{.Category.Name}}</td><td class="muted">{{.ReportingArea}}, {{.StateCode}}</td></tr>
{{end}}</table>{{end}}
{{end}}</section>
{{end}}

{{define "outlook"}}{{if .View.HasData}}<section id="outlook">
<h2>Outlook{{with .View.Location}} for {{.City}}, {{.State}}{{end}}</h2>
{{if .View.AlertsOK}}{{if .View.Alerts}}{{range .View.Alerts}}<div class="alert">
<strong>{{.Event}}</strong> <span class="muted">{{.Severity}} / {{.Urgency}} / {{.Certainty}}</span>
{{if .Headline}}<p>{{.Headline}}</p>{{end}}
{{if .AreaDesc}}<p class="muted">{{.AreaDesc}}</p>{{end}}
{{if .Instruction}}<p>{{.Instruction}}</p>{{end}}
{{if .SenderName}}<p class="muted">{{.SenderName}}{{with .Expires}}, until {{.Format "Mon 3:04 PM MST"}}{{end}}</p>{{end}}
</div>
{{end}}{{else}}<p class="muted">No active alerts for your area.</p>{{end}}{{end}}
{{with .View.Station}}<p>{{if .Description}}{{.Description}}, {{end}}{{with .Temperature}}{{printf "%.0f" .Fahrenheit}}&deg;F{{end}}{{with .Wind}}, wind {{.DirectionCardinal}} {{printf "%.0f" .SpeedInMph}} mph{{end}} <span class="muted">({{.StationID}}, {{.ObservedAt.Format "3:04 PM"}})</span></p>{{end}}
{{range .View.Periods}}<div>
<strong>{{.Name}}</strong> {{.Temperature}}&deg;{{.TemperatureUnit}}{{if .WindSpeed}}, wind {{.WindDirection}} {{.WindSpeed}}{{end}}
<p>{{.DetailedForecast}}</p>
</div>
{{end}}
{{range .View.AirDays}}<div>
<strong>Air quality {{.Date}}</strong>
<table>
{{range .Records}}<tr><td class="muted">{{.ParameterName}}</td><td><span class="badge aqi-{{printf "%d" .Category.Band}}">{{if .HasAQI}}{{.AQI}}{{else}}&mdash;{{end}}</span> {{.Category.Name}}{{if .ActionDay}} &middot; action day{{end}}</td></tr>
{{end}}</table>
{{with (index .Records 0).Discussion}}<p class="muted">{{.}}</p>{{end}}
</div>
{{end}}
{{with .View.Location}}{{if .RadarStation}}<p><img src="/radar/{{.RadarStation}}" alt="Radar loop {{.RadarStation}}" width="600"></p>{{end}}{{end}}
</section>
{{end}}{{end}}

{{define "footer"}}<footer>
<table class="status">
{{range .Statuses}}<tr><td>{{glyph .Status}}</td><td class="muted">{{.Provider}} {{.Call}}</td><td>{{.Status}}{{if .Detail}} ({{.Detail}}){{end}}</td></tr>
{{end}}</table>
<p class="muted">Generated <time datetime="{{.GeneratedAt.Format "2006-01-02T15:04:05Z07:00"}}">{{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</time></p>
</footer>
</body>
</html>
{{end}}
`))
