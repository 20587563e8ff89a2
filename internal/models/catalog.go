package models

import "strconv"

// 目录实体定义，字段与远端元数据服务的JSON返回保持一致。
// 这些实体对本系统只读，不落库。

// Genre 游戏类型
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Platform 游戏平台
type Platform struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PlatformEntry 平台包装结构（远端服务嵌套一层platform对象）
type PlatformEntry struct {
	Platform Platform `json:"platform"`
}

// Tag 游戏标签
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PublisherRef 游戏所属发行商引用
type PublisherRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Game 游戏实体
// Released与Website可能缺失，渲染端用默认值兜底
type Game struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Released        string          `json:"released,omitempty"`
	Rating          float64         `json:"rating"`
	BackgroundImage string          `json:"background_image,omitempty"`
	Genres          []Genre         `json:"genres,omitempty"`
	Platforms       []PlatformEntry `json:"platforms,omitempty"`
	Tags            []Tag           `json:"tags,omitempty"`
	Publishers      []PublisherRef  `json:"publishers,omitempty"`
	Description     string          `json:"description,omitempty"`
	Website         string          `json:"website,omitempty"`
}

// Publisher 发行商实体
// Slug用作路由键，缺失时用ID代替
type Publisher struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug,omitempty"`
	ImageBackground string `json:"image_background,omitempty"`
	GamesCount      int    `json:"games_count"`
	Description     string `json:"description,omitempty"`
}

// Screenshot 游戏截图
type Screenshot struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
}

// GamePage 游戏分页结果
type GamePage struct {
	Count   int    `json:"count"`
	Results []Game `json:"results"`
}

// PublisherPage 发行商分页结果
type PublisherPage struct {
	Count   int         `json:"count"`
	Results []Publisher `json:"results"`
}

// GenrePage 游戏类型列表返回
type GenrePage struct {
	Count   int     `json:"count"`
	Results []Genre `json:"results"`
}

// TagPage 标签列表返回
type TagPage struct {
	Count   int   `json:"count"`
	Results []Tag `json:"results"`
}

// ScreenshotPage 截图列表返回
type ScreenshotPage struct {
	Count   int          `json:"count"`
	Results []Screenshot `json:"results"`
}

// RouteSlug 返回发行商的路由键，slug缺失时退化为数字ID
func (p *Publisher) RouteSlug() string {
	if p.Slug != "" {
		return p.Slug
	}
	return strconv.Itoa(p.ID)
}

// FirstGenreSlug 返回游戏的第一个类型slug，没有则返回空串
func (g *Game) FirstGenreSlug() string {
	if len(g.Genres) == 0 {
		return ""
	}
	return g.Genres[0].Slug
}
