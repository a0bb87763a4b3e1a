package query

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/database/mongoclient"
	"github.com/x-xyz/auction/domain"
)

var (
	mockCTX = ctx.Background()
)

const (
	mockTable = domain.Table("query_test")
	dbName    = "testdb"
)

type Dummy struct {
	Dummy  string `json:"dummy" bson:"dummy"`
	Update string `json:"updatekey" bson:"updatekey"`
}

type querySuite struct {
	suite.Suite
	im       *impl
	mongoURI string
}

func (q *querySuite) SetupSuite() {
	q.mongoURI = os.Getenv("MONGO_URI")
	if q.mongoURI == "" {
		q.T().Skip("MONGO_URI is not set")
	}
}

func (q *querySuite) SetupTest() {
	q.im = &impl{
		client:     mongoclient.MustConnect(mongoclient.Config{URI: q.mongoURI, AuthDBName: "admin", DBName: dbName}),
		checkIndex: false,
	}
	q.Require().NoError(q.im.coll(mockTable).Drop(ctx.Background()))
}

func (q *querySuite) TestFindOne() {
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, Dummy{"a", "b"}))

	result := &Dummy{}
	q.Require().NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"dummy": "a"}, result))
	q.Equal(Dummy{"a", "b"}, *result)

	q.Equal(ErrNotFound, q.im.FindOne(mockCTX, mockTable, bson.M{"dummy": "c"}, result))
}

func (q *querySuite) TestInsertShouldFailWithDuplicateKey() {
	q.Require().NoError(q.im.EnsureIndexes(mockCTX, mockTable, []Index{{Keys: []string{"dummy"}, Unique: true}}))

	q.Require().NoError(q.im.Insert(mockCTX, mockTable, Dummy{"a", "b"}))
	q.Equal(ErrDuplicateKey, q.im.Insert(mockCTX, mockTable, Dummy{"a", "c"}))
	q.NoError(q.im.Insert(mockCTX, mockTable, Dummy{"b", "c"}))
}

func (q *querySuite) TestReplace() {
	q.Equal(ErrNotFound, q.im.Replace(mockCTX, mockTable, bson.M{"dummy": "a"}, Dummy{"a", "b"}))

	q.Require().NoError(q.im.Insert(mockCTX, mockTable, Dummy{"a", "b"}))
	q.Require().NoError(q.im.Replace(mockCTX, mockTable, bson.M{"dummy": "a", "updatekey": "b"}, Dummy{"a", "c"}))

	// the selector no longer matches
	q.Equal(ErrNotFound, q.im.Replace(mockCTX, mockTable, bson.M{"dummy": "a", "updatekey": "b"}, Dummy{"a", "d"}))

	result := &Dummy{}
	q.Require().NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"dummy": "a"}, result))
	q.Equal("c", result.Update)
}

func (q *querySuite) TestSearch() {
	for _, d := range []Dummy{{"a", "3"}, {"b", "1"}, {"c", "2"}} {
		q.Require().NoError(q.im.Insert(mockCTX, mockTable, d))
	}

	var result []Dummy
	q.Require().NoError(q.im.Search(mockCTX, mockTable, 0, 2, "-updatekey", bson.M{}, &result))
	q.Equal([]Dummy{{"a", "3"}, {"c", "2"}}, result)

	result = nil
	q.Require().NoError(q.im.Search(mockCTX, mockTable, 2, 2, "-updatekey", bson.M{}, &result))
	q.Equal([]Dummy{{"b", "1"}}, result)
}

func (q *querySuite) TestSearchWithoutIndex() {
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, Dummy{"a", "b"}))
	q.im.checkIndex = true

	var result []Dummy
	q.Equal(ErrCollScan, q.im.Search(mockCTX, mockTable, 0, 5, "dummy", bson.M{"dummy": "a"}, &result))

	q.Require().NoError(q.im.EnsureIndexes(mockCTX, mockTable, []Index{{Keys: []string{"dummy"}}}))
	q.NoError(q.im.Search(mockCTX, mockTable, 0, 5, "dummy", bson.M{"dummy": "a"}, &result))
	q.Equal([]Dummy{{"a", "b"}}, result)
}

func TestGetSortOption(t *testing.T) {
	got := getSortOption("a", "", "-b")
	want := bson.D{{Key: "a", Value: 1}, {Key: "b", Value: -1}}
	assert.Equal(t, want, got)
}

func TestQuerySuite(t *testing.T) {
	q := new(querySuite)

	suite.Run(t, q)
}
