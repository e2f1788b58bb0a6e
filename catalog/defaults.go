// catalog/defaults.go
package catalog

// DefaultPrograms are the benchmark workloads every toolchain implements.
var DefaultPrograms = []string{"fib", "primes", "pascal"}

var defaultRows = []Toolchain{
	{
		ID:          "scll",
		SourceExt:   ".scll",
		ArtifactExt: ".scle",
		Build:       "./compiler {name}.scll",
		Transform:   Identity,
	},
	{
		ID:          "java",
		SourceExt:   ".java",
		ArtifactExt: ".class",
		Build:       "javac {name}.java",
		Transform:   TitleCase,
	},
	{
		ID:          "c",
		SourceExt:   ".c",
		ArtifactExt: ".out",
		Build:       "gcc -std=c99 -Werror -Wall -o {name}.out {name}.c",
		Transform:   Identity,
	},
	{
		// py_compile only byte-compiles into __pycache__; there is no
		// artifact next to the source.
		ID:        "python",
		SourceExt: ".py",
		Build:     "python3 -m py_compile {name}.py",
		Transform: Identity,
	},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultRows...)
	if err != nil {
		panic("catalog: invalid built-in table: " + err.Error())
	}
	return c
}
