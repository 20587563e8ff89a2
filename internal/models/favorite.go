package models

import "time"

// FavoriteGame 收藏游戏表
// 保存收藏时刻的游戏快照，而不是只存ID
type FavoriteGame struct {
	BaseModel
	DeviceID        string    `gorm:"size:64;not null;uniqueIndex:idx_device_game" json:"device_id"`
	GameID          int       `gorm:"not null;uniqueIndex:idx_device_game" json:"game_id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Released        string    `gorm:"size:20" json:"released,omitempty"`
	Rating          float64   `json:"rating"`
	BackgroundImage string    `gorm:"size:512" json:"background_image,omitempty"`
	Genres          GenreList `gorm:"type:json" json:"genres"`
	FavoritedAt     time.Time `json:"favorited_at"`
}

// TableName 指定表名
func (FavoriteGame) TableName() string {
	return "favorite_games"
}

// NewFavoriteGame 根据游戏实体创建收藏快照
func NewFavoriteGame(deviceID string, game *Game) *FavoriteGame {
	genres := make(GenreList, len(game.Genres))
	copy(genres, game.Genres)

	return &FavoriteGame{
		DeviceID:        deviceID,
		GameID:          game.ID,
		Name:            game.Name,
		Released:        game.Released,
		Rating:          game.Rating,
		BackgroundImage: game.BackgroundImage,
		Genres:          genres,
		FavoritedAt:     time.Now(),
	}
}
