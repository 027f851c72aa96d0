package service

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

func identityRotation() JSON {
	return JSON{"w": 1, "x": 0, "y": 0, "z": 0}
}

func translation(x, y, z float64) JSON {
	return JSON{"x": x, "y": y, "z": z}
}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Create scene", func(a *biff.A) {
		resp := apiRequest("POST", "/scenes").
			WithBodyJson(JSON{
				"name": "my-scene",
			}).Do()
		Save(resp, "Create scene", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		expectedBody := JSON{
			"name":    "my-scene",
			"frames":  0,
			"samples": 0,
		}
		biff.AssertEqualJson(resp.BodyJson(), expectedBody)

		a.Alternative("Retrieve scene", func(a *biff.A) {
			resp := apiRequest("GET", "/scenes/my-scene").Do()
			Save(resp, "Retrieve scene", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			expectedBody := JSON{
				"name":    "my-scene",
				"frames":  0,
				"samples": 0,
			}
			biff.AssertEqualJson(resp.BodyJson(), expectedBody)
		})

		a.Alternative("List scenes", func(a *biff.A) {
			resp := apiRequest("GET", "/scenes").Do()
			Save(resp, "List scenes", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			expectedBody := []JSON{
				{
					"name":    "my-scene",
					"frames":  0,
					"samples": 0,
				},
			}
			biff.AssertEqualJson(resp.BodyJson(), expectedBody)
		})

		a.Alternative("Create scene twice", func(a *biff.A) {
			resp := apiRequest("POST", "/scenes").
				WithBodyJson(JSON{
					"name": "my-scene",
				}).Do()
			Save(resp, "Create scene - already exists", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Drop scene", func(a *biff.A) {
			resp := apiRequest("POST", "/scenes/my-scene:dropScene").Do()
			Save(resp, "Drop scene", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			a.Alternative("Get dropped scene", func(a *biff.A) {
				resp := apiRequest("GET", "/scenes/my-scene").Do()
				Save(resp, "Get scene - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Add transforms", func(a *biff.A) {

			myTransforms := []JSON{
				{
					"parent":      "a",
					"child":       "b",
					"timestamp":   10,
					"translation": translation(1, 0, 0),
					"rotation":    identityRotation(),
				},
				{
					"parent":      "a",
					"child":       "b",
					"timestamp":   20,
					"translation": translation(2, 0, 0),
					"rotation":    identityRotation(),
				},
			}

			body := ""
			for _, myTransform := range myTransforms {
				myTransform, _ := json.Marshal(myTransform)
				body += string(myTransform) + "\n"
			}
			resp := apiRequest("POST", "/scenes/my-scene:addTransforms").
				WithBodyString(body).Do()
			Save(resp, "Add transforms", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)

			a.Alternative("Scene summary counts frames and samples", func(a *biff.A) {
				resp := apiRequest("GET", "/scenes/my-scene").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				expectedBody := JSON{
					"name":    "my-scene",
					"frames":  2,
					"samples": 2,
				}
				biff.AssertEqualJson(resp.BodyJson(), expectedBody)
			})

			a.Alternative("Get transform - interpolated", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:getTransform").
					WithBodyJson(JSON{
						"from": "a",
						"to":   "b",
						"at":   15,
					}).Do()
				Save(resp, "Get transform - interpolated", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				expectedBody := JSON{
					"parent":      "a",
					"child":       "b",
					"timestamp":   15,
					"translation": translation(1.5, 0, 0),
					"rotation":    identityRotation(),
				}
				biff.AssertEqualJson(resp.BodyJson(), expectedBody)
			})

			a.Alternative("Get transform - exact sample", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:getTransform").
					WithBodyJson(JSON{
						"from": "a",
						"to":   "b",
						"at":   20,
					}).Do()
				Save(resp, "Get transform - exact sample", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				expectedBody := JSON{
					"parent":      "a",
					"child":       "b",
					"timestamp":   20,
					"translation": translation(2, 0, 0),
					"rotation":    identityRotation(),
				}
				biff.AssertEqualJson(resp.BodyJson(), expectedBody)
			})

			a.Alternative("Get transform - inverse", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:getTransform").
					WithBodyJson(JSON{
						"from": "b",
						"to":   "a",
						"at":   15,
					}).Do()
				Save(resp, "Get transform - inverse", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				expectedBody := JSON{
					"parent":      "b",
					"child":       "a",
					"timestamp":   15,
					"translation": translation(-1.5, 0, 0),
					"rotation":    identityRotation(),
				}
				biff.AssertEqualJson(resp.BodyJson(), expectedBody)
			})

			a.Alternative("Get transform - same frame", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:getTransform").
					WithBodyJson(JSON{
						"from": "a",
						"to":   "a",
						"at":   15,
					}).Do()
				Save(resp, "Get transform - same frame", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				expectedBody := JSON{
					"parent":      "a",
					"child":       "a",
					"timestamp":   15,
					"translation": translation(0, 0, 0),
					"rotation":    identityRotation(),
				}
				biff.AssertEqualJson(resp.BodyJson(), expectedBody)
			})

			a.Alternative("Get transform - before the oldest sample", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:getTransform").
					WithBodyJson(JSON{
						"from": "a",
						"to":   "b",
						"at":   5,
					}).Do()
				Save(resp, "Get transform - before buffer", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				errorMessage := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
				biff.AssertEqual(errorMessage, "timestamp is older than the oldest entry")
			})

			a.Alternative("Get transform - after the latest sample", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:getTransform").
					WithBodyJson(JSON{
						"from": "a",
						"to":   "b",
						"at":   25,
					}).Do()
				Save(resp, "Get transform - after buffer", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				errorMessage := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
				biff.AssertEqual(errorMessage, "timestamp is newer than the latest entry")
			})

			a.Alternative("Get transform - disconnected frames", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:getTransform").
					WithBodyJson(JSON{
						"from": "a",
						"to":   "ghost",
						"at":   15,
					}).Do()
				Save(resp, "Get transform - disconnected", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				errorMessage := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
				biff.AssertEqual(errorMessage, "frames do not share a common ancestor")
			})

			a.Alternative("List frames", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:listFrames").Do()
				Save(resp, "List frames", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), []string{"a", "b"})
			})

			a.Alternative("Find edges", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:findEdges").
					WithBodyJson(JSON{}).Do()
				Save(resp, "Find edges", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				expectedBody := []JSON{
					{
						"parent":  "a",
						"child":   "b",
						"samples": 2,
						"static":  false,
						"oldest":  10,
						"latest":  20,
					},
				}
				biff.AssertEqualJson(resp.BodyJson(), expectedBody)
			})

			a.Alternative("Find edges - with filter", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:findEdges").
					WithBodyJson(JSON{
						"filter": JSON{"child": "nope"},
					}).Do()
				Save(resp, "Find edges - with filter", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), []JSON{})
			})

			a.Alternative("Add transform - parent conflict", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:addTransforms").
					WithBodyJson(JSON{
						"parent":      "x",
						"child":       "b",
						"timestamp":   30,
						"translation": translation(0, 0, 0),
						"rotation":    identityRotation(),
					}).Do()
				Save(resp, "Add transform - parent conflict", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusConflict)
				errorMessage := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
				biff.AssertEqual(errorMessage, "child frame is already attached to another parent")

				a.Alternative("First edge remains queryable", func(a *biff.A) {
					resp := apiRequest("POST", "/scenes/my-scene:getTransform").
						WithBodyJson(JSON{
							"from": "a",
							"to":   "b",
							"at":   15,
						}).Do()

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
				})
			})

			a.Alternative("Add transform - same frame", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:addTransforms").
					WithBodyJson(JSON{
						"parent":      "b",
						"child":       "b",
						"timestamp":   30,
						"translation": translation(0, 0, 0),
						"rotation":    identityRotation(),
					}).Do()
				Save(resp, "Add transform - same frame", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusConflict)
				errorMessage := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
				biff.AssertEqual(errorMessage, "parent and child cannot be the same frame")
			})

			a.Alternative("Add transform - invalid rotation", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:addTransforms").
					WithBodyJson(JSON{
						"parent":      "b",
						"child":       "z",
						"timestamp":   30,
						"translation": translation(0, 0, 0),
						"rotation":    JSON{"w": 0, "x": 0, "y": 0, "z": 0},
					}).Do()
				Save(resp, "Add transform - invalid rotation", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusConflict)
				errorMessage := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
				biff.AssertEqual(errorMessage, "rotation is not a valid quaternion")
			})

			a.Alternative("Chain across two edges", func(a *biff.A) {

				bcTransforms := []JSON{
					{
						"parent":      "b",
						"child":       "c",
						"timestamp":   10,
						"translation": translation(0, 1, 0),
						"rotation":    identityRotation(),
					},
					{
						"parent":      "b",
						"child":       "c",
						"timestamp":   20,
						"translation": translation(0, 1, 0),
						"rotation":    identityRotation(),
					},
				}
				body := ""
				for _, bcTransform := range bcTransforms {
					bcTransform, _ := json.Marshal(bcTransform)
					body += string(bcTransform) + "\n"
				}
				apiRequest("POST", "/scenes/my-scene:addTransforms").
					WithBodyString(body).Do()

				resp := apiRequest("POST", "/scenes/my-scene:getTransform").
					WithBodyJson(JSON{
						"from": "a",
						"to":   "c",
						"at":   15,
					}).Do()
				Save(resp, "Get transform - two hops", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				expectedBody := JSON{
					"parent":      "a",
					"child":       "c",
					"timestamp":   15,
					"translation": translation(1.5, 1, 0),
					"rotation":    identityRotation(),
				}
				biff.AssertEqualJson(resp.BodyJson(), expectedBody)
			})

			a.Alternative("Await transform - resolved by a later insert", func(a *biff.A) {

				go func() {
					time.Sleep(50 * time.Millisecond)
					apiRequest("POST", "/scenes/my-scene:addTransforms").
						WithBodyJson(JSON{
							"parent":      "b",
							"child":       "d",
							"timestamp":   15,
							"translation": translation(0, 0, 1),
							"rotation":    identityRotation(),
						}).Do()
				}()

				resp := apiRequest("POST", "/scenes/my-scene:awaitTransform").
					WithBodyJson(JSON{
						"from":       "a",
						"to":         "d",
						"at":         15,
						"timeout_ms": 5000,
					}).Do()
				Save(resp, "Await transform", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				expectedBody := JSON{
					"parent":      "a",
					"child":       "d",
					"timestamp":   15,
					"translation": translation(1.5, 0, 1),
					"rotation":    identityRotation(),
				}
				biff.AssertEqualJson(resp.BodyJson(), expectedBody)
			})

			a.Alternative("Await transform - timeout", func(a *biff.A) {
				resp := apiRequest("POST", "/scenes/my-scene:awaitTransform").
					WithBodyJson(JSON{
						"from":       "a",
						"to":         "ghost",
						"at":         15,
						"timeout_ms": 50,
					}).Do()
				Save(resp, "Await transform - timeout", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusRequestTimeout)
				errorMessage := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
				biff.AssertEqual(errorMessage, "await deadline exceeded")
			})

		})

		a.Alternative("Rotation interpolation", func(a *biff.A) {

			halfTurn := math.Pi / 4 // 90 degrees about z, in half-angle
			rotations := []JSON{
				{
					"parent":      "base",
					"child":       "arm",
					"timestamp":   10,
					"translation": translation(0, 0, 0),
					"rotation":    identityRotation(),
				},
				{
					"parent":      "base",
					"child":       "arm",
					"timestamp":   20,
					"translation": translation(0, 0, 0),
					"rotation":    JSON{"w": math.Cos(halfTurn), "x": 0, "y": 0, "z": math.Sin(halfTurn)},
				},
			}
			body := ""
			for _, rotation := range rotations {
				rotation, _ := json.Marshal(rotation)
				body += string(rotation) + "\n"
			}
			apiRequest("POST", "/scenes/my-scene:addTransforms").
				WithBodyString(body).Do()

			resp := apiRequest("POST", "/scenes/my-scene:getTransform").
				WithBodyJson(JSON{
					"from": "base",
					"to":   "arm",
					"at":   15,
				}).Do()
			Save(resp, "Get transform - rotation interpolated", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			rotation := resp.BodyJson().(JSON)["rotation"].(JSON)
			assertClose(rotation["w"].(float64), math.Cos(math.Pi/8))
			assertClose(rotation["x"].(float64), 0)
			assertClose(rotation["y"].(float64), 0)
			assertClose(rotation["z"].(float64), math.Sin(math.Pi/8))
		})

	})

	a.Alternative("Add transforms on not existing scene", func(a *biff.A) {

		resp := apiRequest("POST", "/scenes/my-scene:addTransforms").
			WithBodyJson(JSON{
				"parent":      "a",
				"child":       "b",
				"timestamp":   10,
				"translation": translation(1, 0, 0),
				"rotation":    identityRotation(),
			}).Do()
		Save(resp, "Add transforms - scene created on first use", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)

		a.Alternative("Scene exists afterwards", func(a *biff.A) {
			resp := apiRequest("GET", "/scenes/my-scene").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			expectedBody := JSON{
				"name":    "my-scene",
				"frames":  2,
				"samples": 1,
			}
			biff.AssertEqualJson(resp.BodyJson(), expectedBody)
		})

	})

	a.Alternative("Get not existing scene", func(a *biff.A) {
		resp := apiRequest("GET", "/scenes/your-scene").Do()
		Save(resp, "Get scene - not found", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})

	a.Alternative("Get transform on not existing scene", func(a *biff.A) {
		resp := apiRequest("POST", "/scenes/your-scene:getTransform").
			WithBodyJson(JSON{
				"from": "a",
				"to":   "b",
				"at":   10,
			}).Do()
		Save(resp, "Get transform - scene not found", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		errorMessage := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
		biff.AssertEqual(errorMessage, "scene not found")
	})

}

func assertClose(actual, expected float64) {
	biff.AssertTrue(math.Abs(actual-expected) <= 1e-9)
}
