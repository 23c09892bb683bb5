package syntax

import (
	"sort"
	"sync"
	"unsafe"

	forest "github.com/alexaandru/go-sitter-forest"
	golang "github.com/alexaandru/go-sitter-forest/go"
	"github.com/alexaandru/go-sitter-forest/java"
	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/python"
	"github.com/alexaandru/go-sitter-forest/rust"
	"github.com/alexaandru/go-sitter-forest/tsx"
	"github.com/alexaandru/go-sitter-forest/typescript"
	"github.com/alexaandru/go-sitter-forest/yaml"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// grammarFuncs lists the grammars linked into the binary directly. Any other
// name is resolved through the forest registry.
var grammarFuncs = map[string]func() unsafe.Pointer{
	"go":         golang.GetLanguage,
	"java":       java.GetLanguage,
	"javascript": javascript.GetLanguage,
	"python":     python.GetLanguage,
	"rust":       rust.GetLanguage,
	"tsx":        tsx.GetLanguage,
	"typescript": typescript.GetLanguage,
	"yaml":       yaml.GetLanguage,
}

var grammarCache sync.Map

// Grammar returns the tree-sitter language for name, or nil if unknown.
func Grammar(name string) *sitter.Language {
	if cached, ok := grammarCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang
		}
	}

	var lang *sitter.Language

	if fn, ok := grammarFuncs[name]; ok {
		lang = sitter.NewLanguage(fn())
	} else {
		lang = forestGrammar(name)
	}

	if lang == nil {
		return nil
	}

	grammarCache.Store(name, lang)

	return lang
}

// forestGrammar resolves name through the forest registry, which panics on
// some unknown names.
func forestGrammar(name string) (lang *sitter.Language) {
	defer func() {
		if recover() != nil {
			lang = nil
		}
	}()

	return forest.GetLanguage(name)
}

// BuiltinGrammars returns the names of the directly linked grammars, sorted.
func BuiltinGrammars() []string {
	names := make([]string, 0, len(grammarFuncs))

	for name := range grammarFuncs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
