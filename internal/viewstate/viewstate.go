// Package viewstate 维护列表视图的页码/搜索/过滤状态，
// 并与可分享的位置描述符（URL查询参数）双向同步。
package viewstate

import (
	"net/url"
	"strconv"

	apperrors "github.com/wfunc/game-catalog/internal/errors"
)

const (
	// DefaultPage 默认页码
	DefaultPage = 1

	// FilteredPageCap 过滤条件与排序组合时远端服务的已知页数上限。
	// 无过滤的列表不受此限制。
	FilteredPageCap = 250
)

// 位置描述符中的参数名
const (
	paramPage   = "page"
	paramSearch = "search"
	paramGenre  = "genre"
	paramTag    = "tag"
)

// State 列表视图状态，是页面的唯一事实来源
// 零值字段表示默认：第一页、无搜索词、无过滤
type State struct {
	Page   int    `json:"page"`
	Search string `json:"search,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Tag    string `json:"tag,omitempty"`
}

// Decode 从位置描述符还原视图状态
// 缺失的参数取默认值，非法页码退回第一页
func Decode(query url.Values) State {
	state := State{
		Page:   DefaultPage,
		Search: query.Get(paramSearch),
		Genre:  query.Get(paramGenre),
		Tag:    query.Get(paramTag),
	}

	if raw := query.Get(paramPage); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 1 {
			state.Page = page
		}
	}

	return state
}

// Encode 把视图状态写成位置描述符
// 处于默认值的参数省略不写，保证默认视图对应空描述符
func (s State) Encode() url.Values {
	query := url.Values{}
	if s.Page > DefaultPage {
		query.Set(paramPage, strconv.Itoa(s.Page))
	}
	if s.Search != "" {
		query.Set(paramSearch, s.Search)
	}
	if s.Genre != "" {
		query.Set(paramGenre, s.Genre)
	}
	if s.Tag != "" {
		query.Set(paramTag, s.Tag)
	}
	return query
}

// Filtered 是否有激活的过滤条件
func (s State) Filtered() bool {
	return s.Genre != "" || s.Tag != ""
}

// WithSearch 更新搜索词，页码重置为第一页
func (s State) WithSearch(search string) State {
	s.Search = search
	s.Page = DefaultPage
	return s
}

// WithGenre 更新类型过滤，页码重置为第一页
func (s State) WithGenre(genreSlug string) State {
	s.Genre = genreSlug
	s.Page = DefaultPage
	return s
}

// WithTag 更新标签过滤，页码重置为第一页
func (s State) WithTag(tagSlug string) State {
	s.Tag = tagSlug
	s.Page = DefaultPage
	return s
}

// WithPage 跳转到指定页
// 页码必须落在 [1, totalPages] 内，否则拒绝写入
func (s State) WithPage(page, totalPages int) (State, error) {
	if page < 1 || (totalPages > 0 && page > totalPages) {
		return s, apperrors.Newf(apperrors.ErrInvalidPage, "页码 %d 超出范围 [1, %d]", page, totalPages)
	}
	s.Page = page
	return s, nil
}

// Normalize 页码自动纠正
// 过滤条件变化可能缩小结果集，已提交页码超过最新总页数时静默回到第一页
func (s State) Normalize(totalPages int) State {
	if s.Page < 1 || (totalPages > 0 && s.Page > totalPages) {
		s.Page = DefaultPage
	}
	return s
}

// TotalPages 由结果总数推导总页数
// 过滤视图额外受远端服务的页数上限约束
func TotalPages(totalCount, pageSize int, filtered bool) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}

	pages := (totalCount + pageSize - 1) / pageSize
	if filtered && pages > FilteredPageCap {
		pages = FilteredPageCap
	}
	return pages
}

// Jump 页码跳转操作，仅支持这五种
type Jump int

const (
	JumpFirst Jump = iota
	JumpPrevious
	JumpNext
	JumpPlusTwo
	JumpLast
)

// Apply 执行跳转
// 上一页/下一页在边界处是空操作，+2钳制到最后一页
func (s State) Apply(jump Jump, totalPages int) State {
	if totalPages < 1 {
		return s
	}

	switch jump {
	case JumpFirst:
		s.Page = DefaultPage
	case JumpPrevious:
		if s.Page > 1 {
			s.Page--
		}
	case JumpNext:
		if s.Page < totalPages {
			s.Page++
		}
	case JumpPlusTwo:
		s.Page += 2
		if s.Page > totalPages {
			s.Page = totalPages
		}
	case JumpLast:
		s.Page = totalPages
	}

	return s
}
