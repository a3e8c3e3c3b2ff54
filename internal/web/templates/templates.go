// Package templates holds the HTML components served by the web package.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// IndexData is rendered into the single-page UI.
type IndexData struct {
	Title       string
	Formats     []string
	MaxFileSize int64
	PreviewRows int
}

// ErrorAlert renders an error message fragment for HTMX swaps.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert alert-error" role="alert">`)
		fmt.Fprintf(&b, `<p class="alert-message">%s</p>`, templ.EscapeString(message))
		if action != "" {
			fmt.Fprintf(&b, `<p class="alert-action">%s</p>`, templ.EscapeString(action))
		}
		if code != "" {
			fmt.Fprintf(&b, `<span class="alert-code">%s</span>`, templ.EscapeString(code))
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Index renders the application page.
func Index(data IndexData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		fmt.Fprintf(&b, "<title>%s</title>", templ.EscapeString(data.Title))
		b.WriteString(`<style>` + pageStyle + `</style></head><body>`)
		fmt.Fprintf(&b, `<h1>%s</h1>`, templ.EscapeString(data.Title))

		fmt.Fprintf(&b, `<main id="app" data-max-file-size="%d" data-preview-rows="%d">`,
			data.MaxFileSize, data.PreviewRows)
		b.WriteString(`<section class="input"><textarea id="input" placeholder="Paste a JSON array of objects"></textarea>`)
		b.WriteString(`<input type="file" id="file" accept=".json,application/json"></section>`)
		b.WriteString(`<section class="fields"><ul id="fields"></ul></section>`)
		b.WriteString(`<section class="output"><div class="tabs">`)
		for i, f := range data.Formats {
			cls := "tab"
			if i == 0 {
				cls += " active"
			}
			fmt.Fprintf(&b, `<button class="%s" data-format="%s">%s</button>`,
				cls, templ.EscapeString(f), templ.EscapeString(strings.ToUpper(f)))
		}
		b.WriteString(`</div><pre id="output"></pre></section>`)
		b.WriteString(`<div id="errors"></div></main>`)
		b.WriteString(`<script>` + pageScript + `</script></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem}
textarea{width:100%;min-height:10rem;font-family:monospace}
pre{background:#f4f4f4;padding:1rem;overflow:auto}
.tab.active{font-weight:bold}
.alert-error{color:#a00}`

const pageScript = `(function(){
var session=null,format=document.querySelector(".tab.active")?.dataset.format||"txt";
function api(path,opts){return fetch("/api/sessions/"+session+path,opts).then(function(r){
if(!r.ok){return r.json().then(function(e){throw e})}return r})}
function showError(e){document.getElementById("errors").textContent=(e.message||"Error")+(e.code?" ("+e.code+")":"")}
function refresh(){api("/render/"+format).then(function(r){return r.text()}).then(function(t){
document.getElementById("output").textContent=t;document.getElementById("errors").textContent=""}).catch(showError)}
function fields(view){var ul=document.getElementById("fields");ul.textContent="";
view.fields.forEach(function(f){var li=document.createElement("li"),cb=document.createElement("input");
cb.type="checkbox";cb.checked=f.selected;cb.onchange=function(){post("/fields/select",{field:f.name,selected:cb.checked})};
li.appendChild(cb);li.appendChild(document.createTextNode(f.name));ul.appendChild(li)})}
function post(path,body){return api(path,{method:"POST",headers:{"Content-Type":"application/json"},body:JSON.stringify(body)})
.then(function(r){return r.json()}).then(function(v){fields(v);refresh()}).catch(showError)}
fetch("/api/sessions",{method:"POST"}).then(function(r){return r.json()}).then(function(s){session=s.id});
document.getElementById("input").addEventListener("input",function(e){
api("/input",{method:"POST",body:e.target.value}).then(function(r){return r.json()}).then(function(v){fields(v);refresh()}).catch(showError)});
document.getElementById("file").addEventListener("change",function(e){var fd=new FormData();fd.append("file",e.target.files[0]);
api("/upload",{method:"POST",body:fd}).then(function(r){return r.json()}).then(function(v){fields(v);refresh()}).catch(showError)});
document.querySelectorAll(".tab").forEach(function(b){b.onclick=function(){
document.querySelectorAll(".tab").forEach(function(o){o.classList.remove("active")});b.classList.add("active");
format=b.dataset.format;refresh()}});
})();`
