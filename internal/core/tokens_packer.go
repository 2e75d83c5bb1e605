// ABOUTME: Token suite recognizing packer.nvim declarations
// ABOUTME: use-calls and packer-only table keys carry the most weight
package core

import "regexp"

var packerTokens = append([]TokenMatcher{
	token("packer.nvim - explicit mention", 4, regexp.MustCompile(`(?i)packer\.nvim`), inPrevContent),
	token("packer.startup - initialization function", 4, regexp.MustCompile(`packer\.startup`), inPrevContent),
	token("require('packer') - initialization function", 4, regexp.MustCompile(`require\s*\(\s*['"]packer['"]\s*\)`), inPrevContent),
	token(":Packer - packer command", 4, regexp.MustCompile(`:Packer`), inPrevAfter),
	token("use { - packer plugin definition", 4, regexp.MustCompile(`use\s*\{`), inContent),
	token("use ( - packer plugin definition", 4, regexp.MustCompile(`use\s*\(['{"]`), inContent),
	token("use ' - packer plugin definition with string", 4, regexp.MustCompile(`^\s*use\s*['"]`), inContent),
	tableKey("requires = - dependencies in lua table", 4, `requires\s*=`),
	tableKey("opt = - optional loading in lua table", 4, `opt\s*=`),
	tableKey("disabled = true|false - disable control in lua table", 2, `disabled\s*=\s*(true|false)`),
	tableKey("as = - plugin alias in lua table", 4, `as\s*=`),
	tableKey("setup = - setup function in lua table", 2, `setup\s*=`),
	tableKey("run = - post-install command in lua table", 2, `run\s*=`),
	tableKey("fn = - function trigger in lua table", 2, `fn\s*=`),
	tableKey("module = - module trigger in lua table", 2, `module\s*=`),
	token("{ 'author/plugin' } - plugin spec", 4, pluginSpec, inContentFlat),
	token("packer - keyword mention", 4, word("packer", true), inPrevContent),
	token("Packer - capitalized keyword mention", 4, word("Packer", false), inPrevContent),
}, luaTableTokens()...)
