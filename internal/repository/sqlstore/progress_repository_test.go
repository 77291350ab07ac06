package sqlstore_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/repository"
	"github.com/vytor/plantquiz/internal/repository/sqlstore"
	"github.com/vytor/plantquiz/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	progress repository.ProgressRepository
	players  repository.PlayerRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.progress = sqlstore.NewProgressRepository(s.db, testutil.Builder())
	s.players = sqlstore.NewPlayerRepository(s.db, testutil.Builder())

	ctx := context.Background()
	decks := sqlstore.NewDeckRepository(s.db, testutil.Builder())
	for _, id := range []int64{1, 2} {
		s.Require().NoError(decks.Import(ctx, models.DeckContent{Deck: models.Deck{ID: id, Name: "d"}}))
	}
	_, err := s.players.Upsert(ctx, 42, "alice")
	s.Require().NoError(err)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) TestGetPlayedDeck_NotFoundIsNotAnError() {
	lookup, err := s.progress.GetPlayedDeck(context.Background(), 42, 1)
	s.Require().NoError(err)
	s.Assert().False(lookup.Found)
}

func (s *ProgressRepositorySuite) TestCreateThenGet() {
	ctx := context.Background()
	created, err := s.progress.CreatePlayedDeck(ctx, models.PlayedDeckRecord{PlayerID: 42, DeckID: 1, Level: 2, CurrentStars: 3})
	s.Require().NoError(err)
	s.Require().NotNil(created)
	s.Assert().Equal(2, created.Level)

	lookup, err := s.progress.GetPlayedDeck(ctx, 42, 1)
	s.Require().NoError(err)
	s.Require().True(lookup.Found)
	s.Assert().Equal(3, lookup.Record.CurrentStars)
}

func (s *ProgressRepositorySuite) TestCreate_DuplicateFails() {
	ctx := context.Background()
	rec := models.PlayedDeckRecord{PlayerID: 42, DeckID: 1, Level: 1, CurrentStars: 1}
	_, err := s.progress.CreatePlayedDeck(ctx, rec)
	s.Require().NoError(err)
	_, err = s.progress.CreatePlayedDeck(ctx, rec)
	s.Assert().Error(err)
}

func (s *ProgressRepositorySuite) TestUpdate_OnlyPatchedFields() {
	ctx := context.Background()
	_, err := s.progress.CreatePlayedDeck(ctx, models.PlayedDeckRecord{PlayerID: 42, DeckID: 1, Level: 2, CurrentStars: 2})
	s.Require().NoError(err)

	stars := 3
	updated, err := s.progress.UpdatePlayedDeck(ctx, 42, 1, models.PlayedDeckPatch{CurrentStars: &stars})
	s.Require().NoError(err)
	s.Require().NotNil(updated)
	s.Assert().Equal(2, updated.Level)
	s.Assert().Equal(3, updated.CurrentStars)
}

func (s *ProgressRepositorySuite) TestUpdate_MissingRecord() {
	level := 1
	updated, err := s.progress.UpdatePlayedDeck(context.Background(), 42, 2, models.PlayedDeckPatch{Level: &level})
	s.Assert().NoError(err)
	s.Assert().Nil(updated)
}

func (s *ProgressRepositorySuite) TestListPlayedDecks() {
	ctx := context.Background()
	for _, deckID := range []int64{1, 2} {
		_, err := s.progress.CreatePlayedDeck(ctx, models.PlayedDeckRecord{PlayerID: 42, DeckID: deckID, Level: 1, CurrentStars: 1})
		s.Require().NoError(err)
	}

	records, err := s.progress.ListPlayedDecks(ctx, 42)
	s.Require().NoError(err)
	s.Assert().Len(records, 2)

	none, err := s.progress.ListPlayedDecks(ctx, 7)
	s.Require().NoError(err)
	s.Assert().Empty(none)
}

func (s *ProgressRepositorySuite) TestPlayerStats() {
	ctx := context.Background()

	p, err := s.players.Get(ctx, 42)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Assert().Equal("alice", p.Username)
	s.Assert().Zero(p.Level)

	p, err = s.players.AddStats(ctx, 42, 3, 900, 7)
	s.Require().NoError(err)
	s.Assert().Equal(3, p.Level)
	s.Assert().Equal(900, p.Score)
	s.Assert().Equal(7, p.GamesPlayed)

	p, err = s.players.AddStats(ctx, 42, 1, 100, 1)
	s.Require().NoError(err)
	s.Assert().Equal(4, p.Level, "increments add to the stored level")
	s.Assert().Equal(1000, p.Score)
	s.Assert().Equal(8, p.GamesPlayed)

	p, err = s.players.Upsert(ctx, 42, "alice2")
	s.Require().NoError(err)
	s.Assert().Equal("alice2", p.Username)
	s.Assert().Equal(4, p.Level, "upsert keeps stats")

	missing, err := s.players.Get(ctx, 1000)
	s.Assert().NoError(err)
	s.Assert().Nil(missing)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
