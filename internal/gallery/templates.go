package gallery

// The page templates emit reStructuredText for the sphinx-design grid and
// card directives. Card bodies and toctree entries range over the same slice,
// which keeps their membership and order identical.

const categoryPageTemplate = `{{.Title}}
{{underline .Title "_"}}

{{.Description}}
{{if .Cards}}
.. grid:: 2 2 4 4
    :gutter: 3
    :margin: 0
{{range .Cards}}
    .. grid-item-card:: {{docref .Title .DocRef}}
        :shadow: md

        .. image:: {{.Thumbnail}}
            :alt: {{.Title}}
            :target: {{.DocRef}}.html
            :class: gallery-card-img
{{- if .Description}}

        ^^^
        {{.Description}}
{{- end}}
{{- if .Labels}}

        +++
{{- range .Labels}}
        .. image:: {{.}}
{{- end}}
{{- end}}
{{end}}
.. toctree::
   :hidden:
{{range .Cards}}
   {{.Title}} <{{.DocRef}}>
{{- end}}
{{- else}}
No projects in this category yet.
{{- end}}
`

const rootPageTemplate = `{{.Title}}
{{underline .Title "_"}}

{{.Intro}}
{{range .Sections}}
{{.Heading}}
{{underline .Heading "-"}}
{{if .Cards}}
.. grid:: 2 2 4 4
    :gutter: 3
    :margin: 0
{{range .Cards}}
    .. grid-item-card:: {{docref .Title .DocRef}}
        :shadow: md

        .. image:: {{.Thumbnail}}
            :alt: {{.Title}}
            :target: {{.DocRef}}.html
            :class: gallery-card-img
{{- if .Description}}

        ^^^
        {{.Description}}
{{- end}}
{{- if .Labels}}

        +++
{{- range .Labels}}
        .. image:: {{.}}
{{- end}}
{{- end}}
{{end}}
    .. grid-item-card:: {{docref "See More" .Slug}}
        :shadow: md

        {{.SeeMoreText}}
{{end}}
{{- end}}
.. toctree::
   :hidden:
{{range .Sections}}
   {{.Title}} <{{.Slug}}>
{{- end}}
`
