package defaultexport

import (
	"testing"

	"arrowstyle/internal/engine/lint/linttest"
)

func TestNoExportDefaultArrow(t *testing.T) {
	valid := []linttest.Valid{
		{Code: "const foo = () => {\n  return 'foo'\n}\n\nexport default foo"},
		{Code: "const now = () => Date.now()"},
		{Code: "export const useQuery = () => {}"},
		{Name: "default function declaration", Code: "export default function useThing() {\n  return 1\n}"},
		{Name: "default call wrapping an arrow", Code: "export default memo(() => <div />)"},
	}

	invalid := []linttest.Invalid{
		{
			Filename: "useForceUpdate.ts",
			Code: `import { useState } from 'react'

export default () => {
  const [, update] = useState({})

  const forceUpdate = () => {
    update({})
  }

  return forceUpdate
}`,
			Messages: []string{MessageDisallowed},
			Output: `import { useState } from 'react'

const useForceUpdate = () => {
  const [, update] = useState({})

  const forceUpdate = () => {
    update({})
  }

  return forceUpdate
}

export default useForceUpdate`,
		},
		{
			Filename: "use-mouse.tsx",
			Code:     "export default () => {}\n\nexport const foo = () => 'foo'",
			Messages: []string{MessageDisallowed},
			Output:   "const useMouse = () => {}\n\nexport const foo = () => 'foo'\n\nexport default useMouse",
		},
		{
			Filename: "just_for_fun.js",
			Code:     "export default () => 1\n\n// line comment\n\n/* block comment */",
			Messages: []string{MessageDisallowed},
			Output:   "const justForFun = () => 1\n\n// line comment\n\n/* block comment */\n\nexport default justForFun",
		},
		{
			Filename: "layout.tsx",
			Code: `export default () => {
  return (
    <html>
      <head />
      <body></body>
    </html>
  )
}`,
			Messages: []string{MessageDisallowed},
			Output: `const Layout = () => {
  return (
    <html>
      <head />
      <body></body>
    </html>
  )
}

export default Layout`,
		},
		{
			Filename: "page.tsx",
			Code:     "export default () => <></>",
			Messages: []string{MessageDisallowed},
			Output:   "const Page = () => <></>\n\nexport default Page",
		},
		{
			Name:     "semicolon and trailing newline kept",
			Filename: "src/hooks/use-window-size.ts",
			Code:     "export default (): number => window.innerWidth;\n",
			Messages: []string{MessageDisallowed},
			Output:   "const useWindowSize = (): number => window.innerWidth;\n\nexport default useWindowSize\n",
		},
		{
			Name:     "parenthesized arrow",
			Filename: "handler.js",
			Code:     "export default (() => 1)",
			Messages: []string{MessageDisallowed},
			Output:   "const handler = () => 1\n\nexport default handler",
		},
		{
			Name:     "jsx returned from a branch",
			Filename: "nav-bar.tsx",
			Code:     "export default ({ open }) => {\n  if (!open) {\n    return null\n  }\n  return <nav />\n}",
			Messages: []string{MessageDisallowed},
			Output:   "const NavBar = ({ open }) => {\n  if (!open) {\n    return null\n  }\n  return <nav />\n}\n\nexport default NavBar",
		},
		{
			Name:     "jsx in a nested function does not count",
			Filename: "make-renderer.tsx",
			Code:     "export default () => {\n  return function render() {\n    return <div />\n  }\n}",
			Messages: []string{MessageDisallowed},
			Output:   "const makeRenderer = () => {\n  return function render() {\n    return <div />\n  }\n}\n\nexport default makeRenderer",
		},
	}

	linttest.Run(t, New(), valid, invalid)
}

func TestIdentifierFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		naming   Case
		want     string
	}{
		{"use-mouse.tsx", CamelCase, "useMouse"},
		{"useForceUpdate.ts", CamelCase, "useForceUpdate"},
		{"just_for_fun.js", CamelCase, "justForFun"},
		{"layout.tsx", PascalCase, "Layout"},
		{"/app/routes/page.tsx", PascalCase, "Page"},
		{"UserCard.tsx", CamelCase, "userCard"},
		{"my component.jsx", PascalCase, "MyComponent"},
		{"--weird__name--.js", CamelCase, "weirdName"},
		{"button.stories.tsx", PascalCase, "ButtonStories"},
		{"404.tsx", PascalCase, "_404"},
		{"@scope+pkg.js", CamelCase, "scopepkg"},
		{"", CamelCase, "namedFunction"},
		{"---.ts", PascalCase, "namedFunction"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := IdentifierFromFilename(tt.filename, tt.naming); got != tt.want {
				t.Errorf("IdentifierFromFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
