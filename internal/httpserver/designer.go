package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// The design studio page is a static showcase in the original UI; the
// payload mirrors its content.

type designProject struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

var designProjects = []designProject{
	{ID: 1, Title: "University T-Shirt Collection", Description: "Modern and comfortable apparel designs featuring the university logo", Category: "Apparel"},
	{ID: 2, Title: "Ergonomic Study Furniture", Description: "Functional and stylish furniture designed for optimal studying experience", Category: "Furniture"},
	{ID: 3, Title: "Campus Event Accessories", Description: "Custom promotional items and accessories for university events", Category: "Accessories"},
	{ID: 4, Title: "Outdoor Activity Gear", Description: "Durable and practical gear for outdoor university activities", Category: "Outdoor"},
}

func Designer(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"designer": echo.Map{
			"name":  "Alex Thompson",
			"title": "Lead Product Designer",
		},
		"projects": designProjects,
	})
}
