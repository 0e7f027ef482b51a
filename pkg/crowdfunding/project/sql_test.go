package project

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/smartystreets/goconvey/convey"
)

var projectColumns = []string{"id", "user_id", "title", "alias", "goal", "funded", "cat_id", "cat_alias"}

func TestProjectSQL(t *testing.T) {
	Convey("Given a database mock connection", t, func() {
		db, mock, err := sqlmock.New()
		So(err, ShouldBeNil)
		Reset(func() {
			db.Close()
		})

		Convey("When requesting a nonexistent project", func() {
			mock.ExpectQuery("SELECT(.+)FROM crowdf_projects(.+)p.id = ?").
				WithArgs(int64(404)).
				WillReturnRows(sqlmock.NewRows(projectColumns))

			p, err := Finder{DB: db}.ProjectByID(404)

			Convey("It should return an empty project", func() {
				So(p.Empty(), ShouldBeTrue)
			})
			Convey("It should return an error not found", func() {
				So(err, ShouldEqual, ErrProjectNotFound)
			})
			Convey("The mock should complete successfully", func() {
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When requesting an existing project", func() {
			mock.ExpectQuery("SELECT(.+)FROM crowdf_projects(.+)p.id = ?").
				WithArgs(int64(7)).
				WillReturnRows(sqlmock.NewRows(projectColumns).
					AddRow(7, 3, "Solar Kiosk", "solar-kiosk", "5000.00", "120.50", 2, "energy"))

			p, err := ProjectByIDDB(db, 7)

			Convey("It should succeed", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldEqual, 7)
				So(p.UserID, ShouldEqual, 3)
				So(p.Funded.String(), ShouldEqual, "120.5")
			})
			Convey("It should build the slugs", func() {
				So(p.Slug(), ShouldEqual, "7-solar-kiosk")
				So(p.CatSlug(), ShouldEqual, "2-energy")
			})
		})
	})
}

func TestBackingRoute(t *testing.T) {
	Convey("Given a project", t, func() {
		p := Project{ID: 7, Alias: "solar-kiosk", CategoryID: 2}
		Convey("The share route should contain both slugs", func() {
			So(BackingRoute(p.Slug(), p.CatSlug(), "share"), ShouldEqual, "/projects/2/7-solar-kiosk/backing/share")
		})
	})
}
