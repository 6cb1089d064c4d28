package model_test

import (
	"testing"

	"github.com/okian/gridiron/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlayPostWP(t *testing.T) {
	Convey("Given a play", t, func() {
		Convey("When the post-play win probability is present", func() {
			p := model.Play{WP: model.Float(0.4), WPA: model.Float(0.1), WPAfter: model.Float(0.55)}

			Convey("Then it should be returned as is", func() {
				So(*p.PostWP(), ShouldEqual, 0.55)
			})
		})

		Convey("When only wp and wpa are present", func() {
			p := model.Play{WP: model.Float(0.4), WPA: model.Float(0.1)}

			Convey("Then it should be derived from them", func() {
				So(*p.PostWP(), ShouldAlmostEqual, 0.5, 1e-9)
			})
		})

		Convey("When the derived value leaves the unit interval", func() {
			p := model.Play{WP: model.Float(0.98), WPA: model.Float(0.05)}

			Convey("Then it should be clamped", func() {
				So(*p.PostWP(), ShouldEqual, 1.0)
			})
		})

		Convey("When win probability is missing", func() {
			p := model.Play{WPA: model.Float(0.1)}

			Convey("Then the post-play value should be missing too", func() {
				So(p.PostWP(), ShouldBeNil)
			})
		})
	})
}

func TestPlayKey(t *testing.T) {
	Convey("Given two plays of the same drive", t, func() {
		a := model.Play{GameID: "2020_01_KC_HOU", DriveID: 3, Sequence: 10}
		b := model.Play{GameID: "2020_01_KC_HOU", DriveID: 3, Sequence: 12}

		Convey("Then they should share a drive key", func() {
			So(a.Key(), ShouldResemble, b.Key())
			So(a.Key(), ShouldResemble, model.DriveKey{GameID: "2020_01_KC_HOU", DriveID: 3})
		})
	})
}

func TestClassificationBigUpset(t *testing.T) {
	Convey("Given classifications", t, func() {
		So(model.Classification{BigHomeUpset: true}.BigUpset(), ShouldBeTrue)
		So(model.Classification{BigAwayUpset: true}.BigUpset(), ShouldBeTrue)
		So(model.Classification{Result: model.Upset}.BigUpset(), ShouldBeFalse)
	})
}

func TestClassificationPerspective(t *testing.T) {
	Convey("Given classified games", t, func() {
		game := model.GameSummary{HomeTeam: "KC", AwayTeam: "HOU"}

		Convey("Then a decided game should be seen from its winner", func() {
			c := model.Classification{Game: game, ActualWinner: "HOU"}
			So(c.Perspective(), ShouldEqual, "HOU")
		})

		Convey("Then a tie should be seen from the home team", func() {
			c := model.Classification{Game: game, ActualWinner: model.WinnerTie}
			So(c.Perspective(), ShouldEqual, "KC")
		})
	})
}
