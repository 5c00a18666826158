package board

import (
	"bytes"
	"encoding/base64"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func sampleConfig() Config {
	points := 5
	return Config{
		ID: "board-1",
		Settings: Settings{
			Name:             "Animals",
			NumberOfTiles:    10,
			NumberOfPlayers:  3,
			DiceSides:        6,
			PunishmentType:   PunishmentMoveBackFixed,
			PunishmentValue:  2,
			WinningCondition: WinCombinedOrderScore,
			RandomizeTiles:   true,
		},
		Tiles: []Tile{
			{ID: "t0", Type: TileStart, Position: 0},
			{ID: "t1", Type: TileQuiz, Position: 1, Config: &QuizConfig{
				Question:   "Which one barks?",
				Difficulty: 2,
				Points:     10,
				Options: []QuizOption{
					{ID: "a", Text: "Dog", IsCorrect: true},
					{ID: "b", Text: "Cat"},
				},
			}},
			{ID: "t2", Type: TileInfo, Position: 2, Config: &InfoConfig{Message: "Dogs bark"}},
			{ID: "t3", Type: TileReward, Position: 3, Config: &RewardConfig{Message: "Bone", Points: &points}, UI: TileUI{Color: "#123456"}},
			{ID: "t4", Type: TileFinish, Position: 4},
		},
	}
}

func encodeRaw(t *testing.T, doc string) string {
	t.Helper()
	return base64.RawURLEncoding.EncodeToString([]byte(doc))
}

func TestDecodeRejectsIncompleteDocuments(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		doc  string
	}{
		{"not json", `{{{`},
		{"missing id", `{"settings":{},"tiles":[{"id":"a","type":"start","position":0}]}`},
		{"empty id", `{"id":"","settings":{},"tiles":[{"id":"a","type":"start","position":0}]}`},
		{"missing settings", `{"id":"b","tiles":[{"id":"a","type":"start","position":0}]}`},
		{"missing tiles", `{"id":"b","settings":{}}`},
		{"empty tiles", `{"id":"b","settings":{},"tiles":[]}`},
		{"quiz without config", `{"id":"b","settings":{},"tiles":[{"id":"a","type":"start","position":0},{"id":"q","type":"quiz","position":1}]}`},
		{"unknown tile type", `{"id":"b","settings":{},"tiles":[{"id":"a","type":"portal","position":0}]}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Decode(encodeRaw(t, tc.doc)); !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("expected ErrInvalidFormat, got %v", err)
			}
		})
	}

	if _, err := Decode("   "); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for blank token, got %v", err)
	}
	if _, err := Decode("%%%"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for garbage token, got %v", err)
	}
}

func TestDecodeAppliesDefaultsAndClamps(t *testing.T) {
	t.Parallel()

	doc := `{"id":"b","settings":{"numberOfTiles":500,"numberOfPlayers":0,"diceSides":0,"winningCondition":"mostHats"},
		"tiles":[{"id":"a","type":"start","position":0},{"id":"z","type":"finish","position":1}]}`

	huge := NormalizeSettings(Settings{DiceSides: MaxDiceSides * 1000})
	if huge.DiceSides != MaxDiceSides {
		t.Errorf("diceSides: expected %d got %d", MaxDiceSides, huge.DiceSides)
	}

	c, err := Decode(encodeRaw(t, doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	s := c.Settings
	if s.NumberOfTiles != MaxTiles {
		t.Errorf("numberOfTiles: expected %d got %d", MaxTiles, s.NumberOfTiles)
	}
	if s.NumberOfPlayers != MinPlayers {
		t.Errorf("numberOfPlayers: expected %d got %d", MinPlayers, s.NumberOfPlayers)
	}
	if s.DiceSides != 1 {
		t.Errorf("diceSides: expected 1 got %d", s.DiceSides)
	}
	if s.WinningCondition != WinFirstToFinish {
		t.Errorf("winningCondition: expected %s got %s", WinFirstToFinish, s.WinningCondition)
	}
	if s.Name != defaultBoardName || s.PunishmentType != PunishmentNone || s.PunishmentValue != defaultPunishmentValue {
		t.Errorf("defaults not applied: %+v", s)
	}

	c, err = Decode(encodeRaw(t, `{"id":"b","settings":{},"tiles":[{"id":"a","position":0}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(c.Settings, DefaultSettings()) {
		t.Errorf("expected default settings, got %+v", c.Settings)
	}
}

func TestDecodeMigratesLegacyPunishmentMode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		settings string
		want     PunishmentType
	}{
		{`{"punishmentMode":true}`, PunishmentRevertMove},
		{`{"punishmentMode":false}`, PunishmentNone},
		{`{"punishmentMode":true,"punishmentType":"moveBackFixed"}`, PunishmentMoveBackFixed},
		{`{}`, PunishmentNone},
	}

	for _, tc := range cases {
		doc := `{"id":"b","settings":` + tc.settings + `,"tiles":[{"id":"a","type":"start","position":0}]}`
		c, err := Decode(encodeRaw(t, doc))
		if err != nil {
			t.Fatalf("decode %s: %v", tc.settings, err)
		}
		if c.Settings.PunishmentType != tc.want {
			t.Errorf("%s: expected %s got %s", tc.settings, tc.want, c.Settings.PunishmentType)
		}

		token, err := Encode(c)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		raw, _ := base64.RawURLEncoding.DecodeString(token)
		if strings.Contains(string(raw), "punishmentMode") {
			t.Errorf("legacy field must not be re-emitted: %s", raw)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	c := sampleConfig()
	token, err := Encode(c)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if want := Normalize(c); !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\nwant %#v\ngot  %#v", want, got)
	}

	if _, err := Decode(token + "=="); err != nil {
		t.Errorf("padded token should decode: %v", err)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	c := sampleConfig()
	c.Settings.NumberOfPlayers = 40
	c.Tiles[1].Config.(*QuizConfig).Options[1].IsCorrect = true
	c.Tiles[4].Type = TileQuiz
	c.Tiles[4].Config = &QuizConfig{Question: "?", Options: []QuizOption{{ID: "x"}}}

	once := Normalize(c)
	twice := Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalize is not idempotent\nonce  %#v\ntwice %#v", once, twice)
	}

	if c.Tiles[1].Config.(*QuizConfig).Options[1].IsCorrect != true {
		t.Error("normalize must not mutate its input")
	}
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := EncodeFile(&buf, sampleConfig()); err != nil {
		t.Fatalf("encode file: %v", err)
	}

	got, err := DecodeFile(&buf)
	if err != nil {
		t.Fatalf("decode file: %v", err)
	}

	if want := Normalize(sampleConfig()); !reflect.DeepEqual(got, want) {
		t.Errorf("file round trip mismatch\nwant %#v\ngot  %#v", want, got)
	}
}

func TestDecodeFileNormalizesLegacyData(t *testing.T) {
	t.Parallel()

	doc := `{"id":"legacy","settings":{"name":"Old","punishmentMode":true,"numberOfTiles":3},
		"tiles":[{"id":"c","type":"empty","position":2},{"id":"a","type":"quiz","position":0,
		"config":{"question":"q","options":[{"id":"1","text":"x"},{"id":"2","text":"y"}]}},{"id":"b","position":1}]}`

	c, err := DecodeFile(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode file: %v", err)
	}

	if c.Settings.PunishmentType != PunishmentRevertMove {
		t.Errorf("expected revertMove, got %s", c.Settings.PunishmentType)
	}
	if c.Settings.NumberOfTiles != MinTiles {
		t.Errorf("expected tiles clamped to %d, got %d", MinTiles, c.Settings.NumberOfTiles)
	}

	wantTypes := []TileType{TileStart, TileEmpty, TileFinish}
	for i, tile := range c.Tiles {
		if tile.Position != i || tile.Type != wantTypes[i] {
			t.Errorf("tile %d: expected %s at %d, got %s at %d", i, wantTypes[i], i, tile.Type, tile.Position)
		}
	}
	if c.Tiles[0].Config != nil {
		t.Error("start tile must not keep a config")
	}
}
