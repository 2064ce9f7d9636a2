package main

import (
	"strings"

	"github.com/noborus/ov/oviewer"
)

// page shows content in the ov pager and returns when the user quits it.
func page(content string) error {
	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
