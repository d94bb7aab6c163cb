//go:build !nogui

package gui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

type folderResult struct {
	path string
	err  error
}

// folderDialog opens the native folder picker attached to a window.
type folderDialog struct {
	window fyne.Window
	do     func(func())
}

// ChooseDirectory shows the picker and blocks until the user picks a folder,
// dismisses the picker or ctx ends.
func (d *folderDialog) ChooseDirectory(ctx context.Context) (string, bool, error) {
	res := make(chan folderResult, 1)
	d.do(func() {
		dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				res <- folderResult{err: err}
				return
			}
			res <- folderResult{path: uri.Path()}
		}, d.window).Show()
	})

	select {
	case r := <-res:
		if r.err != nil {
			return "", false, r.err
		}
		return r.path, r.path != "", nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}
