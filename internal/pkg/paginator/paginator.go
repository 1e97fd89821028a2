// Package paginator 把有序结果集切分为固定大小的页，并把不合法的页码归一化。
package paginator

import (
	"strconv"
	"strings"
)

// LastPage 是页码参数中表示"最后一页"的特殊值
const LastPage = "last"

// Page 描述一次分页的结果
type Page struct {
	Number   int // 当前页码，从 1 开始
	NumPages int // 总页数，空结果集为 0
	PerPage  int
	Total    int
}

// Compute 根据总数、每页数量和请求的页码计算分页信息。
// 缺失或无法解析的页码为第 1 页，小于 1 时为第 1 页，超过最后一页时为最后一页。
func Compute(total, perPage int, requested string) Page {
	if perPage < 1 {
		perPage = 1
	}
	if total < 0 {
		total = 0
	}
	numPages := (total + perPage - 1) / perPage

	p := Page{NumPages: numPages, PerPage: perPage, Total: total}
	p.Number = normalize(requested, numPages)
	return p
}

// Slice 对内存中的有序列表分页，返回当前页的元素
func Slice[T any](items []T, perPage int, requested string) ([]T, Page) {
	p := Compute(len(items), perPage, requested)
	start, end := p.Offset(), p.Offset()+p.Limit()
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], p
}

func normalize(requested string, numPages int) int {
	last := numPages
	if last < 1 {
		last = 1
	}
	requested = strings.TrimSpace(requested)
	if requested == LastPage {
		return last
	}
	n, err := strconv.Atoi(requested)
	if err != nil || n < 1 {
		return 1
	}
	if n > last {
		return last
	}
	return n
}

// Offset 是当前页第一条记录在结果集中的位置
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Limit 是当前页最多包含的记录数
func (p Page) Limit() int {
	return p.PerPage
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

// HasOtherPages 为真时模板才需要渲染分页导航
func (p Page) HasOtherPages() bool {
	return p.HasPrevious() || p.HasNext()
}

func (p Page) PreviousNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

func (p Page) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

// PageRange 返回当前页前后各 radius 页的页码，用于渲染导航
func (p Page) PageRange(radius int) []int {
	if p.NumPages == 0 {
		return nil
	}
	start, end := p.Number-radius, p.Number+radius
	if start < 1 {
		start = 1
	}
	if end > p.NumPages {
		end = p.NumPages
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
