package api

import (
	"io/fs"
	"strings"
)

// publicDocs exposes only the regular, non-hidden files of a documents
// tree. Hidden segments and directories look missing, so /md/ never lists
// the tree or serves paths like .git/config.
type publicDocs struct {
	fsys fs.FS
}

func (d publicDocs) Open(name string) (fs.File, error) {
	if hiddenPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	f, err := d.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f, nil
}

// hiddenPath reports whether any segment of name starts with a dot. The
// root "." itself is not hidden.
func hiddenPath(name string) bool {
	if name == "." {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
