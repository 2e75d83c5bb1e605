// ABOUTME: Token suite recognizing vim-plug declarations
// ABOUTME: Every vim-plug hint is decisive on its own
package core

import "regexp"

var vimPlugTokens = []TokenMatcher{
	token("vim-plug - explicit mention", 4, regexp.MustCompile(`(?i)(?:^|\W)vim-plug(?:$|\W)`), inAll),
	token("vimplug - explicit mention", 4, regexp.MustCompile(`(?i)(?:^|\W)vimplug(?:$|\W)`), inAll),
	token("vim plug - explicit mention", 4, regexp.MustCompile(`(?i)(?:^|\W)vim\s+plug(?:$|\W)`), inAll),
	token("Plug - keyword mention", 4, word("Plug", false), inPrev),
	token("Plug ' - plugin definition with single quote", 4, regexp.MustCompile(`Plug\s+'`), inContent),
	token("plug#begin - initialization function", 4, regexp.MustCompile(`plug#begin`), inAll),
	token("plug#end - finalization function", 4, regexp.MustCompile(`plug#end`), inAll),
	token(":PlugInstall - vim-plug command", 4, regexp.MustCompile(`:PlugInstall`), inAll),
	token("PlugInstall - vim-plug command reference", 4, regexp.MustCompile(`PlugInstall`), inContent),
	token("UpdateRemotePlugins - remote plugin command", 4, regexp.MustCompile(`UpdateRemotePlugins`), inContent),
}
