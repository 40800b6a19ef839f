package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit         bool       `json:"hit"`
	SphereIndex int        `json:"sphereIndex"` // -1 on a miss
	Center      [3]float64 `json:"center"`
	Radius      float64    `json:"radius"`
	Color       string     `json:"color"`
	Specular    float64    `json:"specular"`
	Distance    float64    `json:"distance"`
	Point       [3]float64 `json:"point"`
	Normal      [3]float64 `json:"normal"`
	Intensity   float64    `json:"intensity"` // Local illumination before color scaling
	Traced      string     `json:"traced"`    // Final pixel color including reflections
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// inspectPixel casts the primary ray through a pixel and describes the nearest hit
func inspectPixel(sceneObj *scene.Scene, ray core.Ray) InspectResponse {
	traced := sceneObj.Trace(ray, 0)

	hit, ok := sceneObj.ClosestHit(ray)
	if !ok {
		return InspectResponse{SphereIndex: -1, Traced: traced.Hex()}
	}

	return InspectResponse{
		Hit:         true,
		SphereIndex: hit.Index,
		Center:      vecArray(hit.Sphere.Center),
		Radius:      hit.Sphere.Radius,
		Color:       hit.Sphere.Color.Hex(),
		Specular:    hit.Sphere.Specular,
		Distance:    hit.T,
		Point:       vecArray(hit.Point),
		Normal:      vecArray(hit.Normal),
		Intensity:   sceneObj.Shade(ray, hit),
		Traced:      traced.Hex(),
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("px"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid px coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("py"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid py coordinate")
		return
	}

	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := scene.CreateByName(req.Scene)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := inspectPixel(sceneObj, req.camera().GetRay(pixelX, pixelY))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
