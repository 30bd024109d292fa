package render

import (
	"html/template"
	"io"

	"github.com/couchcryptid/restroom-finder/internal/domain"
)

var page = template.Must(template.New("nearby").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Nearby bathrooms</title></head>
<body>
{{- if .Error}}
<div class="error">
  <h2>Error</h2>
  <ul><li>{{.Error}}</li></ul>
</div>
{{- else}}
<h1>{{.Heading}}</h1>
<table>
  <thead>
    <tr><th>OSM Node</th><th>Distance</th><th>Directions</th></tr>
  </thead>
  <tbody>
  {{- range .Rows}}
    <tr>
      <td><a href="{{.OSMURL}}" target="_blank">OSM:{{.ID}}</a></td>
      <td>{{.Distance}}</td>
      <td><a href="{{.DirectionsURL}}" target="_blank">Open in Google Maps</a></td>
    </tr>
  {{- end}}
  </tbody>
</table>
{{- if .Attribution}}
<p class="attribution">{{.Attribution}}</p>
{{- end}}
{{- end}}
</body>
</html>
`))

// Loader is served before coordinates are known. It asks the browser for its
// position and reloads /nearby with either the coordinates or the error code.
const Loader = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Nearby bathrooms</title></head>
<body>
<div>Loading...</div>
<script>
(function () {
  if (!("geolocation" in navigator)) {
    location.replace("/nearby?error=unsupported");
    return;
  }
  navigator.geolocation.getCurrentPosition(
    function (pos) {
      location.replace("/nearby?lat=" + pos.coords.latitude + "&lon=" + pos.coords.longitude);
    },
    function (err) {
      location.replace("/nearby?error=" + err.code);
    }
  );
})();
</script>
</body>
</html>
`

type row struct {
	ID            int64
	Distance      string
	OSMURL        string
	DirectionsURL string
}

type view struct {
	Error       string
	Heading     string
	Rows        []row
	Attribution string
}

// HTML writes the result page.
func HTML(w io.Writer, r domain.QueryResult) error {
	var v view
	if !r.Ready() {
		v.Error = Message(r.Err)
		return page.Execute(w, v)
	}

	v.Heading = Heading(r)
	v.Attribution = r.Attribution.Copyright
	v.Rows = make([]row, 0, len(r.POIs))
	for _, p := range r.POIs {
		v.Rows = append(v.Rows, row{
			ID:            p.ID,
			Distance:      distance(r.Origin, p),
			OSMURL:        p.OSMURL(),
			DirectionsURL: p.DirectionsURL(),
		})
	}
	return page.Execute(w, v)
}
