package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"path"
	"time"

	"github.com/gin-gonic/gin/render"

	"github.com/anzhiyu-c/myblog/internal/pkg/parser"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
)

const (
	layoutFile   = "base.html"
	layoutName   = "base"
	excerptRunes = 200
)

// CustomHTMLRender 为每个页面保存一份 "布局 + 页面" 模板
type CustomHTMLRender struct {
	Templates map[string]*template.Template
}

func (r CustomHTMLRender) Instance(name string, data interface{}) render.Render {
	tpl, ok := r.Templates[name]
	if !ok {
		log.Printf("[Render] 模板 %s 不存在", name)
		tpl = r.Templates["500.html"]
	}
	return render.HTML{Template: tpl, Name: layoutName, Data: data}
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"markdown": parser.RenderContent,
		"excerpt": func(content string) string {
			return parser.Excerpt(content, excerptRunes)
		},
		"date": func(t time.Time) string {
			return t.Local().Format("January 02, 2006")
		},
		"datetime": func(t time.Time) string {
			return t.Local().Format("2006-01-02 15:04")
		},
		"fieldError": func(errs *model.ValidationError, field string) string {
			return errs.Get(field)
		},
	}
}

// LoadTemplates 从 fsys 的 dir 目录解析全部页面模板，每个页面都继承 base.html
func LoadTemplates(fsys fs.FS, dir string) (CustomHTMLRender, error) {
	layout, err := template.New(layoutFile).Funcs(funcMap()).ParseFS(fsys, path.Join(dir, layoutFile))
	if err != nil {
		return CustomHTMLRender{}, fmt.Errorf("解析布局模板失败: %w", err)
	}

	pages, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return CustomHTMLRender{}, err
	}

	r := CustomHTMLRender{Templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		name := path.Base(page)
		if name == layoutFile {
			continue
		}
		tpl, err := template.Must(layout.Clone()).ParseFS(fsys, page)
		if err != nil {
			return CustomHTMLRender{}, fmt.Errorf("解析模板 %s 失败: %w", name, err)
		}
		r.Templates[name] = tpl
	}
	return r, nil
}
