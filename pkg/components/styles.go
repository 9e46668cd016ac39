package components

import "github.com/toolbench/toolbench/pkg/styling"

var sheet = styling.Register(styling.New("components", `
.btn { display: inline-flex; align-items: center; gap: 0.375rem; border-radius: 0.375rem; border: 1px solid transparent; padding: 0.375rem 0.75rem; font: inherit; cursor: pointer; }
.btn-primary { background: var(--accent); color: #fff; }
.btn-ghost { background: none; color: inherit; }
.btn-ghost:hover { border-color: var(--border); }
.card { border: 1px solid var(--border); border-radius: 0.5rem; background: var(--surface); }
.card-link { display: block; padding: 1rem 1.25rem; color: inherit; text-decoration: none; }
.card-link:hover .card-title { color: var(--accent); }
.card-eyebrow { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.05em; color: var(--muted); }
.card-title { margin: 0.25rem 0; font-size: 1.125rem; }
.card-summary { margin: 0; color: var(--muted); }
.card-meta { margin-top: 0.5rem; font-size: 0.8125rem; color: var(--muted); }
.breadcrumbs ol { display: flex; flex-wrap: wrap; gap: 0.375rem; list-style: none; margin: 0 0 1rem; padding: 0; font-size: 0.875rem; color: var(--muted); }
.breadcrumbs li + li::before { content: "/"; margin-right: 0.375rem; }
.breadcrumbs a { color: inherit; }
.overlay { position: fixed; inset: 0; z-index: 50; background: rgb(0 0 0 / 0.4); }
.overlay[hidden] { display: none; }
.overlay-panel { position: absolute; top: 0; left: 0; bottom: 0; width: min(20rem, 85vw); background: var(--surface); padding: 1rem; overflow-y: auto; }
.overlay-header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 1rem; }
.overlay-title { margin: 0; font-size: 1rem; }
.byline { display: flex; align-items: center; gap: 0.75rem; color: var(--muted); font-size: 0.875rem; margin-bottom: 1.5rem; }
.byline-avatar { width: 2.5rem; height: 2.5rem; border-radius: 50%; }
.byline-name { color: var(--text); font-weight: 600; }
`))
