package web

import (
	"html/template"
	"strconv"

	"github.com/amonks/tareas/tasklist"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"pageURL":   pageURL,
		"editURL":   func(state tasklist.FilterState, id int) string { return taskURL(state, id, "/edit") },
		"deleteURL": func(state tasklist.FilterState, id int) string { return taskURL(state, id, "/delete") },
		"newURL":    func(state tasklist.FilterState) string { return withQuery("/tasks/new", state) },
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

func taskURL(state tasklist.FilterState, id int, suffix string) string {
	return withQuery("/tasks/"+strconv.Itoa(id)+suffix, state)
}

func withQuery(path string, state tasklist.FilterState) string {
	encoded := stateValues(state).Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}

const pageTemplate = `{{define "header"}}<!doctype html>
<html lang="es">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Tareas</title>
  <style>
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: #fcfaf6;
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
    }
    header h1 {
      margin: 0;
      font-size: 20px;
    }
    main {
      padding: 16px 24px;
      max-width: 960px;
    }
    .filters {
      display: flex;
      flex-wrap: wrap;
      gap: 8px;
      align-items: end;
      margin-bottom: 16px;
    }
    .card {
      border: 1px solid #d7cdbd;
      border-radius: 8px;
      padding: 12px 16px;
      margin-bottom: 12px;
      background: #fff;
    }
    .card h2 {
      margin: 0 0 4px 0;
      font-size: 16px;
    }
    .meta {
      color: #6b6157;
      font-size: 13px;
    }
    .badge {
      display: inline-block;
      padding: 2px 8px;
      border-radius: 999px;
      background: #f0e9dc;
      margin-right: 4px;
    }
    .alert {
      padding: 12px 16px;
      border: 1px solid #d9a6a0;
      background: #fbecea;
      border-radius: 8px;
      margin-bottom: 16px;
    }
    .placeholder {
      color: #6b6157;
      font-style: italic;
    }
    .pager {
      display: flex;
      gap: 12px;
      align-items: center;
    }
    form.task label {
      display: block;
      margin-top: 12px;
    }
  </style>
</head>
<body>
  <header><h1><a href="{{.ListURL}}">Tareas</a></h1></header>
  <main>
  {{if .Alert}}<div class="alert" role="alert">{{.Alert}}</div>{{end}}
{{end}}

{{define "footer"}}
  </main>
</body>
</html>
{{end}}

{{define "list"}}{{template "header" .}}
  <form class="filters" method="get" action="/">
    <label>Estado
      <select name="estado">
        {{range .Statuses}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
      </select>
    </label>
    <label>Prioridad
      <select name="prioridad">
        {{range .Priorities}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
      </select>
    </label>
    {{if .Paging}}
    <label>Buscar
      <input type="search" name="search" value="{{.State.Search}}">
    </label>
    <label>Por página
      <select name="per_page">
        {{range .Sizes}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
      </select>
    </label>
    {{end}}
    <button type="submit">Filtrar</button>
    <a href="/">Limpiar</a>
    <a class="new" href="{{newURL .State}}">Nueva tarea</a>
  </form>
  {{with .Board}}
  <section class="cards">
    {{if .Empty}}<p class="placeholder">{{.Placeholder}}</p>{{end}}
    {{range .Cards}}
    <article class="card" data-id="{{.ID}}">
      <h2>#{{.ID}} {{.Title}}</h2>
      <p class="description">{{.Description}}</p>
      <p class="meta">
        <span class="badge status status-{{.Status}}">{{.StatusLabel}}</span>
        <span class="badge priority priority-{{.Priority}}">{{.PriorityLabel}}</span>
        {{if .Due}}<span class="due">Vence: {{.Due}}</span>{{end}}
      </p>
      <p class="actions">
        <a class="edit" href="{{editURL $.State .ID}}">Editar</a>
        <a class="delete" href="{{deleteURL $.State .ID}}">Eliminar</a>
      </p>
    </article>
    {{end}}
  </section>
  {{with .Pager}}
  <nav class="pager">
    {{if .HasPrev}}<a class="prev" href="{{pageURL $.State .PrevPage}}">« Anterior</a>{{end}}
    <span class="info">{{.Info}}</span>
    {{if .HasNext}}<a class="next" href="{{pageURL $.State .NextPage}}">Siguiente »</a>{{end}}
  </nav>
  {{end}}
  {{else}}
  <p><a class="back" href="{{.ListURL}}">Volver a la lista</a></p>
  {{end}}
{{template "footer" .}}{{end}}

{{define "confirm"}}{{template "header" .}}
  {{with .Confirm}}
  <section class="confirm" role="dialog">
    <p class="prompt">{{.Prompt}}</p>
    <form method="post" action="/tasks/{{.ID}}/delete">
      <input type="hidden" name="return" value="{{$.Return}}">
      <button type="submit" name="confirm" value="yes">Eliminar</button>
      <button type="submit" name="confirm" value="no">Cancelar</button>
    </form>
  </section>
  {{end}}
{{template "footer" .}}{{end}}

{{define "form"}}{{template "header" .}}
  {{with .Form}}
  <h2>{{.Title}}</h2>
  {{if .Error}}<div class="alert form-error" role="alert">{{.Error}}</div>{{end}}
  <form class="task" method="post" action="{{.Action}}">
    <input type="hidden" name="return" value="{{$.Return}}">
    <label>Título
      <input type="text" name="titulo" maxlength="100" value="{{.Draft.Title}}">
    </label>
    <label>Descripción
      <textarea name="descripcion" rows="4">{{.Draft.Description}}</textarea>
    </label>
    <label>Estado
      <select name="estado">
        {{range .Statuses}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
      </select>
    </label>
    <label>Prioridad
      <select name="prioridad">
        {{range .Priorities}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
      </select>
    </label>
    <label>Vence
      <input type="datetime-local" name="fecha_vencimiento" value="{{.Draft.DueAt}}">
    </label>
    <p>
      <button type="submit">Guardar</button>
      <a href="{{$.ListURL}}">Cancelar</a>
    </p>
  </form>
  {{end}}
{{template "footer" .}}{{end}}
`
