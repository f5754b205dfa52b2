// Package init triggers platform registration via import side-effects.
//
//	import _ "github.com/sanix-darker/revu/internal/vcs/init"
package init

import (
	_ "github.com/sanix-darker/revu/internal/vcs/github"
)
