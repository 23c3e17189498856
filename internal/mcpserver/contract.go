package mcpserver

// LinkContract describes the canonical wikilink convention that notes in a
// Linkwise vault converge to.
const LinkContract = `# Linkwise Wikilink Convention

Every Markdown note in the vault uses double-bracket wikilinks. Linkwise
continuously rewrites them to the shortest unambiguous form.

## Link forms

` + "```" + `markdown
[[note]]              # plain link to a note by name
[[folder/note]]       # path-qualified link
[[note|display text]] # link with an alias shown instead of the name
` + "```" + `

## Rules

1. **Targets are filename stems.** No ` + "`" + `.md` + "`" + ` extension; path separators are
   forward slashes: ` + "`" + `[[folder/note]]` + "`" + `.
2. **Unique names get bare links.** When exactly one note in the whole vault
   is called ` + "`" + `note` + "`" + `, write ` + "`" + `[[note]]` + "`" + ` and drop any folder prefix. Linkwise
   rewrites qualified links to this form automatically.
3. **Ambiguous names keep their path.** If two notes share a name, links to
   them must stay path-qualified and Linkwise leaves them untouched.
4. **Redundant aliases are dropped.** ` + "`" + `[[note|note]]` + "`" + ` becomes ` + "`" + `[[note]]` + "`" + `
   when alias optimization is on (the default). An alias that differs from
   the note name is always preserved: ` + "`" + `[[folder/note|custom]]` + "`" + ` becomes
   ` + "`" + `[[note|custom]]` + "`" + `.
5. **Do not fight the rewriter.** Write links in whatever form is convenient;
   the vault converges to the canonical form on save.
6. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes. Encoding is UTF-8.

## Display shortening

Rendered previews shorten long link labels without touching targets. A link
whose target file matches the configured short-display name (default
` + "`" + `README` + "`" + `) displays as its parent folder with a trailing slash:
` + "`" + `Projects/X/README` + "`" + ` shows as ` + "`" + `X/` + "`" + `. Every other link shows just the last
path segment.

## Example

` + "```" + `markdown
# Weekly review

- Ship the [[design-doc]]
- Update [[Projects/roadmap|the roadmap]]
- See notes in [[Projects/X/README]]
` + "```" + `
`
