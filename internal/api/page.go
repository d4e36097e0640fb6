package api

import (
	"html/template"

	"github.com/dgallion1/mdview/internal/viewer"
)

type pageData struct {
	viewer.View
	Theme string
	// Param is the query parameter that selects a page.
	Param string
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"trusted": func(s string) template.HTML { return template.HTML(s) },
	"css":     func(s string) template.CSS { return template.CSS(s) },
}).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .Title}}{{.Title}}{{else}}mdview{{end}}</title>
<link rel="stylesheet" href="/styles.css">
</head>
<body>
<header>
  <form method="post" action="/asides"><button type="submit" id="toggle-asides">{{if .AsidesHidden}}Show panels{{else}}Hide panels{{end}}</button></form>
  <form method="post" action="/theme"><button type="submit" id="toggle-theme">{{if eq .Theme "dark"}}Light mode{{else}}Dark mode{{end}}</button></form>
</header>
<aside id="navigation"{{if .AsidesHidden}} hidden{{end}}><ul>
{{trusted .Nav}}</ul></aside>
<main id="content" data-state="{{.State}}"{{if .ContentStyle}} style="{{css .ContentStyle}}"{{end}}>
{{trusted .Content}}
</main>
<aside id="headings"{{if .AsidesHidden}} hidden{{end}}><ul>
{{trusted .Headings}}</ul></aside>
<script>
(function () {
  var param = {{.Param}}, key = {{.Key}}, fragment = {{.Fragment}};
  var q = new URLSearchParams(location.search);
  var m = location.hash.match(/^#[^=]*=([^=]*)/);
  if (param === "p" && m && !q.has(param) && m[1] !== key) {
    location.replace("/?p=" + encodeURIComponent(m[1]));
    return;
  }
  if (fragment) {
    history.replaceState(null, "", location.pathname + location.search + "#" + fragment);
  }
  window.scrollTo(0, 0);
})();
</script>
</body>
</html>
`

const baseStyles = `:root { --bg: #ffffff; --fg: #1f2328; --muted: #656d76; --accent: #0969da; --border: #d0d7de; }
[data-theme="dark"] { --bg: #0d1117; --fg: #e6edf3; --muted: #8d96a0; --accent: #4493f8; --border: #30363d; }
body { margin: 0; background: var(--bg); color: var(--fg); font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; }
header { display: flex; gap: 0.5rem; justify-content: flex-end; padding: 0.5rem 1rem; border-bottom: 1px solid var(--border); }
header form { margin: 0; }
aside { position: fixed; top: 3rem; bottom: 0; overflow-y: auto; padding: 1rem; }
aside ul { list-style: none; margin: 0; padding: 0; }
#navigation { left: 0; width: 230px; border-right: 1px solid var(--border); }
#headings { right: 0; width: 190px; border-left: 1px solid var(--border); }
#content { margin-left: 260px; margin-right: 220px; padding: 1rem 2rem; }
#navigation .section { margin-top: 0.75rem; font-weight: 600; }
#navigation .subsection { margin-top: 0.25rem; padding-left: 0.5rem; color: var(--muted); }
#navigation a { color: var(--fg); text-decoration: none; }
#navigation a.sub { padding-left: 1rem; }
#navigation a.active { color: var(--accent); font-weight: 600; }
#headings a { color: var(--muted); text-decoration: none; }
#headings .level-2 { padding-left: 0.5rem; }
#headings .level-3 { padding-left: 1rem; }
#headings .level-4, #headings .level-5, #headings .level-6 { padding-left: 1.5rem; }
#content img, #content video { max-width: 100%; }
#content pre { padding: 0.75rem; overflow-x: auto; border-radius: 6px; }
`
