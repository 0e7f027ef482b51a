package mail

import (
	"errors"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
)

var (
	ErrTemplateNotFound    = errors.New("template not found")
	ErrInvalidTemplateFile = errors.New("invalid template file")
)

// NormalizeLocale tries to bring the locale into the form lang_REGION
//
// It does not necessarily return a valid locale. In this case the default
// locale will be used anyways.
func NormalizeLocale(l string) string {
	if l == "" {
		return "_"
	}
	l = strings.Replace(l, "-", "_", -1)
	tag, err := language.Parse(l)
	if err != nil {
		return l
	}
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf != language.Exact {
		return base.String()
	}
	return base.String() + "_" + region.String()
}

// TemplateFile returns the path of the template baseName in fsys
//
// The locales are tried in order, each normalized, like so:
//
//	locale/baseName
//
// A template which is a directory fails with ErrInvalidTemplateFile.
func TemplateFile(fsys fs.FS, baseName string, locales ...string) (string, error) {
	for _, l := range locales {
		name := path.Join(NormalizeLocale(l), baseName)
		inf, err := fs.Stat(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if inf.IsDir() {
			return "", ErrInvalidTemplateFile
		}
		return name, nil
	}
	return "", ErrTemplateNotFound
}
