// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/invowk/spice/internal/cueutil"
	"github.com/invowk/spice/pkg/model"
)

type Id int

const (
	WorkspaceNotFoundId Id = iota + 1
	DeclarationParseErrorId
	ConfigLoadFailedId
	UnknownVariantId
	NoSuchAddressId
	InvalidAddressId
	DependencyCycleId
	IncompleteGraphId
	InvalidGraphId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

// Classify maps an error from the engine onto the catalog. Specific graph
// errors win over the generic invalid-graph entry.
func Classify(err error) (Id, bool) {
	switch {
	case err == nil:
		return 0, false
	case errors.Is(err, model.ErrCyclicReference):
		return DependencyCycleId, true
	case errors.Is(err, model.ErrIncompleteGraph):
		return IncompleteGraphId, true
	case errors.Is(err, model.ErrUnknownVariant):
		return UnknownVariantId, true
	case errors.Is(err, model.ErrInvalidAddress):
		return InvalidAddressId, true
	case errors.Is(err, cueutil.ErrSchema):
		return DeclarationParseErrorId, true
	case errors.Is(err, model.ErrNoSuchAddress):
		return NoSuchAddressId, true
	case errors.Is(err, model.ErrInvalidGraph):
		return InvalidGraphId, true
	case errors.Is(err, fs.ErrNotExist):
		return WorkspaceNotFoundId, true
	}
	return 0, false
}

const docsBase = "https://github.com/invowk/spice/blob/main/docs/"

var (
	render = glamour.Render

	workspaceNotFoundIssue = &Issue{
		id: WorkspaceNotFoundId,
		mdMsg: `
# No workspace found!

spice looks for a ` + "`workspace.spice.yml`" + ` file in the workspace directory, which
defaults to the current directory.

## Things you can try:
- Point spice at the workspace root:
~~~
$ spice --workspace /path/to/repo nodes
~~~

- Create a minimal workspace declaration:
~~~yaml
name: my-repo
definitions:
  variants:
    debug:
      srcs: [src/main/java]
~~~`,
		docLinks: []HttpLink{docsBase + "workspace.md"},
	}

	declarationParseErrorIssue = &Issue{
		id: DeclarationParseErrorId,
		mdMsg: `
# A declaration file could not be parsed!

Every ` + "`module.spice.yml`" + ` and ` + "`workspace.spice.yml`" + ` is checked against the
declaration schema before it is used.

## Things you can try:
- Check the path reported above; it points at the offending field.
- Dependencies are written either as a bare address or as a single-entry map:
~~~yaml
deps:
  - /libs/core
  - /libs/testing: [test]
~~~
- Variants and tests are maps keyed by name, not lists.`,
		docLinks: []HttpLink{docsBase + "declarations.md"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

spice reads ` + "`spice.cue`" + ` from the workspace directory, or the file given with ` + "`--config`" + `.

## Things you can try:
- Check the syntax of the configuration file.
- Compare it with the accepted keys:
~~~cue
thread_count:        4
follow_symlinks:     false
dynamic_loading:     true
local_only:          true
module_file_name:    "module.spice.yml"
workspace_file_name: "workspace.spice.yml"
log_level:           "info"
output:              "text"
~~~
- Every key can also be set with a ` + "`SPICE_`" + ` environment variable, e.g. ` + "`SPICE_THREAD_COUNT=8`" + `.`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
	}

	unknownVariantIssue = &Issue{
		id: UnknownVariantId,
		mdMsg: `
# Unknown variant!

Only variants declared under ` + "`definitions.variants`" + ` in the workspace declaration
can be sliced, and modules may only configure declared variants.

## Things you can try:
- List the declared variants:
~~~
$ spice variants
~~~
- Declare the variant in ` + "`workspace.spice.yml`" + ` before using it in a module.`,
		docLinks: []HttpLink{docsBase + "variants.md"},
	}

	noSuchAddressIssue = &Issue{
		id: NoSuchAddressId,
		mdMsg: `
# No such address!

An address names a directory, relative to the workspace root, that holds a
` + "`module.spice.yml`" + ` file. Test addresses have the form ` + "`/module:variant:test`" + `.

## Things you can try:
- Check that the module directory exists and holds a declaration file.
- Find the module owning a path:
~~~
$ spice find /path/inside/the/module
~~~
- Run ` + "`spice -v ...`" + ` to see the underlying read or parse error.`,
		docLinks: []HttpLink{docsBase + "addresses.md"},
	}

	invalidAddressIssue = &Issue{
		id: InvalidAddressId,
		mdMsg: `
# Unsupported address!

Either the address is not absolute, it uses an external scheme that cannot be
resolved locally, or modules are nested inside each other.

## Things you can try:
- Start local addresses and paths with ` + "`/`" + `.
- A module cannot live below another module. Move the inner module out, or
  merge the two declarations.`,
		docLinks: []HttpLink{docsBase + "addresses.md"},
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

The modules listed above depend on each other in a loop, so no build order exists.

## Things you can try:
- Follow the reported path and remove one of the dependencies.
- Extract the shared code into a new module both sides can depend on.
- Print the dependencies of one module:
~~~
$ spice deps /some/module
~~~`,
		docLinks: []HttpLink{docsBase + "validation.md"},
		extLinks: []HttpLink{"https://en.wikipedia.org/wiki/Dependency_graph"},
	}

	incompleteGraphIssue = &Issue{
		id: IncompleteGraphId,
		mdMsg: `
# Incomplete graph!

Some dependencies point at addresses that do not exist in the workspace.

## Things you can try:
- Create the missing modules, or fix the referencing declarations listed above.
- Modules inside a nested workspace are never loaded by the outer workspace.
- Show everything that depends on a missing address:
~~~
$ spice deps --reverse /missing/address
~~~`,
		docLinks: []HttpLink{docsBase + "validation.md"},
	}

	invalidGraphIssue = &Issue{
		id: InvalidGraphId,
		mdMsg: `
# Invalid graph!

The workspace declarations describe a graph spice cannot accept. Tests, for
example, must be leaves: nothing may depend on a test.

## Things you can try:
- Read the violations listed above and fix the named declarations.
- Re-run the checks:
~~~
$ spice validate
~~~`,
		docLinks: []HttpLink{docsBase + "validation.md"},
	}

	issues = map[Id]*Issue{
		workspaceNotFoundIssue.Id():     workspaceNotFoundIssue,
		declarationParseErrorIssue.Id(): declarationParseErrorIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		unknownVariantIssue.Id():        unknownVariantIssue,
		noSuchAddressIssue.Id():         noSuchAddressIssue,
		invalidAddressIssue.Id():        invalidAddressIssue,
		dependencyCycleIssue.Id():       dependencyCycleIssue,
		incompleteGraphIssue.Id():       incompleteGraphIssue,
		invalidGraphIssue.Id():          invalidGraphIssue,
	}
)

func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
