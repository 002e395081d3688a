package cmd

import (
	_ "panelkeeper/cmd/addon"
	_ "panelkeeper/cmd/install"
	_ "panelkeeper/cmd/logs"
	_ "panelkeeper/cmd/menu"
	_ "panelkeeper/cmd/remove"
	_ "panelkeeper/cmd/root"
	_ "panelkeeper/cmd/server"
	_ "panelkeeper/cmd/status"
)
