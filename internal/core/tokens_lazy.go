// ABOUTME: Token suite recognizing lazy.nvim declarations
// ABOUTME: Weights: 4 near-certain, 3 strong, 2 supporting
package core

import "regexp"

var lazyTokens = append([]TokenMatcher{
	token("lazy.nvim - explicit mention", 4, regexp.MustCompile(`(?i)lazy.nvim`), inPrevContent),
	token("lazy.vim - explicit mention", 4, regexp.MustCompile(`(?i)lazy.vim`), inPrevContent),
	token("VeryLazy - lazy.nvim specific event", 4, regexp.MustCompile(`["']VeryLazy["']`), inContent),
	token("require('lazy') - lazy.nvim entry point", 4, regexp.MustCompile(`require\s*\(\s*['"]lazy['"]\s*\)`), inPrevContent),
	token(":Lazy - lazy.nvim command", 4, regexp.MustCompile(`:Lazy`), inPrevAfter),
	tableKey("dependencies = - dependency list in lua table", 4, `dependencies\s*=`),
	tableKey("lazy = - lazy loading control in lua table", 4, `lazy\s*=`),
	tableKey("enabled = true|false - enable control in lua table", 2, `enabled\s*=\s*(true|false)`),
	tableKey("priority = - loading priority in lua table", 2, `priority\s*=`),
	tableKey("build = - post-install command in lua table", 2, `build\s*=`),
	tableKey("version = - version constraint in lua table", 2, `version\s*=`),
	tableKey("pin = - pin to commit in lua table", 4, `pin\s*=`),
	tableKey("init = - initialization function in lua table", 2, `init\s*=`),
	token("{ 'author/plugin' } - plugin spec", 4, pluginSpec, inContentFlat),
	token("lazy - keyword in heading", 4, regexp.MustCompile(`(?i)(?:^|[^\w-])#+.*lazy(?:$|[^\w-])`), inPrev),
	token("lazy - keyword mention", 2, word("lazy", true), inPrevContent),
	token("LazyNvim - capitalized keyword mention", 4, word("LazyNvim", false), inPrevContent),
	token("LazyVim - capitalized keyword mention", 4, word("LazyVim", false), inPrevContent),
	token("Lazy - capitalized keyword mention", 3, word("Lazy", false), inPrevContent),
	tableKey("opts = - configuration options in lua table", 2, `opts\s*=`),
}, luaTableTokens()...)
