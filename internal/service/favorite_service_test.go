package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/wfunc/game-catalog/internal/models"
	"github.com/wfunc/game-catalog/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FavoriteServiceTestSuite 收藏服务测试套件
type FavoriteServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service FavoriteService
	ctx     context.Context
}

func (suite *FavoriteServiceTestSuite) SetupTest() {
	suite.db = repository.SetupTestDB()
	suite.service = NewFavoriteService(repository.NewFavoriteRepository(suite.db), zap.NewNop())
	suite.ctx = context.Background()
}

func (suite *FavoriteServiceTestSuite) TearDownTest() {
	repository.CleanupTestDB(suite.db)
}

func (suite *FavoriteServiceTestSuite) game(id int, name string) *models.Game {
	return &models.Game{
		ID:     id,
		Name:   name,
		Rating: 4.2,
		Genres: []models.Genre{{ID: 1, Name: "Action", Slug: "action"}},
	}
}

// 测试收藏与列表
func (suite *FavoriteServiceTestSuite) TestAddAndList() {
	suite.NoError(suite.service.Add(suite.ctx, "device-1", suite.game(100, "Zelda")))
	suite.NoError(suite.service.Add(suite.ctx, "device-1", suite.game(200, "Halo")))

	favorites, err := suite.service.List(suite.ctx, "device-1")
	suite.NoError(err)
	suite.Require().Len(favorites, 2)
	suite.Equal("Zelda", favorites[0].Name)
	suite.Equal("Halo", favorites[1].Name)
}

// 测试重复收藏幂等
func (suite *FavoriteServiceTestSuite) TestAdd_Idempotent() {
	suite.NoError(suite.service.Add(suite.ctx, "device-1", suite.game(100, "Zelda")))
	suite.NoError(suite.service.Add(suite.ctx, "device-1", suite.game(100, "Zelda")))

	favorites, err := suite.service.List(suite.ctx, "device-1")
	suite.NoError(err)
	suite.Len(favorites, 1)
}

// 测试取消收藏幂等
func (suite *FavoriteServiceTestSuite) TestRemove_Idempotent() {
	suite.NoError(suite.service.Add(suite.ctx, "device-1", suite.game(100, "Zelda")))

	suite.NoError(suite.service.Remove(suite.ctx, "device-1", 100))
	suite.NoError(suite.service.Remove(suite.ctx, "device-1", 100))

	favorite, err := suite.service.IsFavorite(suite.ctx, "device-1", 100)
	suite.NoError(err)
	suite.False(favorite)
}

// 测试切换收藏状态
func (suite *FavoriteServiceTestSuite) TestToggle() {
	favorite, err := suite.service.Toggle(suite.ctx, "device-1", suite.game(100, "Zelda"))
	suite.NoError(err)
	suite.True(favorite)

	favorite, err = suite.service.Toggle(suite.ctx, "device-1", suite.game(100, "Zelda"))
	suite.NoError(err)
	suite.False(favorite)

	favorites, err := suite.service.List(suite.ctx, "device-1")
	suite.NoError(err)
	suite.Empty(favorites)
}

// 测试观察者在操作返回前同步收到事件
func (suite *FavoriteServiceTestSuite) TestSubscribe_SynchronousEvents() {
	var events []FavoriteEvent
	unsubscribe := suite.service.Subscribe(func(event FavoriteEvent) {
		events = append(events, event)
	})
	defer unsubscribe()

	suite.NoError(suite.service.Add(suite.ctx, "device-1", suite.game(100, "Zelda")))
	suite.Require().Len(events, 1)
	suite.Equal(FavoriteEvent{DeviceID: "device-1", GameID: 100, Favorite: true}, events[0])

	suite.NoError(suite.service.Remove(suite.ctx, "device-1", 100))
	suite.Require().Len(events, 2)
	suite.Equal(FavoriteEvent{DeviceID: "device-1", GameID: 100, Favorite: false}, events[1])
}

// 测试幂等空操作不产生事件
func (suite *FavoriteServiceTestSuite) TestSubscribe_NoEventOnNoop() {
	var events []FavoriteEvent
	unsubscribe := suite.service.Subscribe(func(event FavoriteEvent) {
		events = append(events, event)
	})
	defer unsubscribe()

	// 取消一个不存在的收藏
	suite.NoError(suite.service.Remove(suite.ctx, "device-1", 999))
	suite.Empty(events)

	// 重复收藏只产生一次事件
	suite.NoError(suite.service.Add(suite.ctx, "device-1", suite.game(100, "Zelda")))
	suite.NoError(suite.service.Add(suite.ctx, "device-1", suite.game(100, "Zelda")))
	suite.Len(events, 1)
}

// 测试取消订阅后不再收到事件
func (suite *FavoriteServiceTestSuite) TestSubscribe_Unsubscribe() {
	var events []FavoriteEvent
	unsubscribe := suite.service.Subscribe(func(event FavoriteEvent) {
		events = append(events, event)
	})

	unsubscribe()

	suite.NoError(suite.service.Add(suite.ctx, "device-1", suite.game(100, "Zelda")))
	suite.Empty(events)
}

func TestFavoriteServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FavoriteServiceTestSuite))
}
