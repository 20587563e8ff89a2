package viewstate

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/wfunc/game-catalog/internal/errors"
)

// ViewStateTestSuite 视图状态测试套件
type ViewStateTestSuite struct {
	suite.Suite
}

// 测试编码解码往返一致
func (suite *ViewStateTestSuite) TestEncodeDecode_RoundTrip() {
	state := State{Page: 3, Search: "halo", Genre: "action"}

	decoded := Decode(state.Encode())
	suite.Equal(state, decoded)
}

// 测试默认状态编码为空描述符
func (suite *ViewStateTestSuite) TestEncode_OmitsDefaults() {
	state := State{Page: 1, Search: "", Genre: "", Tag: ""}

	query := state.Encode()
	suite.Empty(query)
	suite.Equal("", query.Encode())
}

// 测试解码缺省参数
func (suite *ViewStateTestSuite) TestDecode_Defaults() {
	state := Decode(url.Values{})
	suite.Equal(State{Page: 1}, state)
}

// 测试解码非法页码退回第一页
func (suite *ViewStateTestSuite) TestDecode_InvalidPage() {
	for _, raw := range []string{"0", "-3", "abc", "1.5"} {
		query := url.Values{}
		query.Set("page", raw)
		state := Decode(query)
		suite.Equal(1, state.Page, "page=%s 应退回第一页", raw)
	}
}

// 测试搜索词与过滤条件变化重置页码
func (suite *ViewStateTestSuite) TestMutations_ResetPage() {
	state := State{Page: 7, Search: "old"}

	suite.Equal(1, state.WithSearch("new").Page)
	suite.Equal(1, state.WithGenre("action").Page)
	suite.Equal(1, state.WithTag("singleplayer").Page)
}

// 测试总页数推导与过滤上限
func (suite *ViewStateTestSuite) TestTotalPages() {
	// 50000条记录、每页40条 → 1250页
	suite.Equal(1250, TotalPages(50000, 40, false))

	// 激活过滤时钳制到250页
	suite.Equal(250, TotalPages(50000, 40, true))

	// 未超过上限的过滤视图不受影响
	suite.Equal(3, TotalPages(90, 40, true))

	// 边界
	suite.Equal(0, TotalPages(0, 40, false))
	suite.Equal(1, TotalPages(1, 40, false))
	suite.Equal(1, TotalPages(40, 40, false))
	suite.Equal(2, TotalPages(41, 40, false))
}

// 测试过滤判断
func (suite *ViewStateTestSuite) TestFiltered() {
	suite.False(State{}.Filtered())
	suite.False(State{Search: "halo"}.Filtered())
	suite.True(State{Genre: "action"}.Filtered())
	suite.True(State{Tag: "singleplayer"}.Filtered())
}

// 测试页码自动纠正
func (suite *ViewStateTestSuite) TestNormalize() {
	// 已提交页码为10，过滤条件变化后总页数只剩3 → 回到第一页
	state := State{Page: 10, Genre: "action"}
	suite.Equal(1, state.Normalize(3).Page)

	// 页码仍然有效时保持不变
	state = State{Page: 3}
	suite.Equal(3, state.Normalize(10).Page)
}

// 测试显式跳页的范围校验
func (suite *ViewStateTestSuite) TestWithPage_Validation() {
	state := State{Page: 2}

	next, err := state.WithPage(5, 10)
	suite.NoError(err)
	suite.Equal(5, next.Page)

	_, err = state.WithPage(0, 10)
	suite.Error(err)
	suite.True(apperrors.Is(err, apperrors.ErrInvalidPage))

	_, err = state.WithPage(11, 10)
	suite.Error(err)
	suite.True(apperrors.Is(err, apperrors.ErrInvalidPage))
}

// 测试五种跳转操作
func (suite *ViewStateTestSuite) TestApply_Jumps() {
	const totalPages = 10

	// 首页/末页
	suite.Equal(1, State{Page: 5}.Apply(JumpFirst, totalPages).Page)
	suite.Equal(10, State{Page: 5}.Apply(JumpLast, totalPages).Page)

	// 上一页/下一页
	suite.Equal(4, State{Page: 5}.Apply(JumpPrevious, totalPages).Page)
	suite.Equal(6, State{Page: 5}.Apply(JumpNext, totalPages).Page)

	// 边界处是空操作
	suite.Equal(1, State{Page: 1}.Apply(JumpPrevious, totalPages).Page)
	suite.Equal(10, State{Page: 10}.Apply(JumpNext, totalPages).Page)

	// +2钳制到最后一页
	suite.Equal(7, State{Page: 5}.Apply(JumpPlusTwo, totalPages).Page)
	suite.Equal(10, State{Page: 9}.Apply(JumpPlusTwo, totalPages).Page)
	suite.Equal(10, State{Page: 10}.Apply(JumpPlusTwo, totalPages).Page)
}

func TestViewStateTestSuite(t *testing.T) {
	suite.Run(t, new(ViewStateTestSuite))
}

// 测试编码保留非默认页码
func TestEncodePageOnly(t *testing.T) {
	query := State{Page: 2}.Encode()
	assert.Equal(t, "2", query.Get("page"))
	assert.False(t, query.Has("search"))
}
