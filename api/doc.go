// Package api exposes the matching pipeline over HTTP.
//
// Routes:
//
//	GET  /                            service description
//	GET  /health                      liveness
//	POST /api/v1/reports/lost         file a lost-pet report and match it
//	POST /api/v1/reports/sighting     file a sighting and match it
//	GET  /api/v1/reports/{id}         fetch a stored report
//	GET  /api/v1/search               filter stored reports by province, species, size, type, q
//
// Report endpoints accept either a JSON UserInput body or a multipart form
// with province, canton, district, description and up to five image files.
package api
