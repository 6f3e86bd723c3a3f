// Package docs registers the OpenAPI document served under /swagger/.
// It mirrors the handler annotations in internal/transport/http/gin;
// TestSwaggerDocumentsEveryRoute fails when a route is missing here.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "summary": "Liveness",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/location/detect": {
            "post": {
                "summary": "Detect location from browser coordinates",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "client id", "name": "X-Client-ID", "in": "header"},
                    {"description": "coordinates or denial", "name": "req", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpgin.DetectLocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UserLocation"}}
                }
            }
        },
        "/location": {
            "get": {
                "summary": "Cached location",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "client id", "name": "X-Client-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UserLocation"}}
                }
            }
        },
        "/preferences/tourist-type": {
            "get": {
                "summary": "Tourist type preference",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "client id", "name": "X-Client-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httpgin.TouristTypeResponse"}}
                }
            },
            "put": {
                "summary": "Save tourist type preference",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "client id", "name": "X-Client-ID", "in": "header"},
                    {"description": "domestic or international", "name": "req", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpgin.TouristTypeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httpgin.TouristTypeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/places/low-crowd": {
            "get": {
                "summary": "Low-crowd recommendations and area alerts",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "client id", "name": "X-Client-ID", "in": "header"},
                    {"type": "string", "description": "place or city filter", "name": "search", "in": "query"},
                    {"type": "integer", "description": "max places", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboard.Recommendations"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/places/high-crowd": {
            "get": {
                "summary": "High-crowd places",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "max places", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Place"}}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/places/heatmap": {
            "get": {
                "summary": "Crowd heatmap points",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/analytics.HeatPoint"}}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/footfall/insights": {
            "get": {
                "summary": "Hourly crowd, per-place summary and best visit time",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboard.Insights"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/hotels": {
            "get": {
                "summary": "Hotels near the caller or a searched city",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "page, from 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size", "name": "limit", "in": "query"},
                    {"type": "string", "description": "city", "name": "search", "in": "query"},
                    {"type": "boolean", "description": "vacancy at least 20%", "name": "onlyAvailable", "in": "query"},
                    {"type": "number", "description": "minimum rating", "name": "minRating", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboard.HotelsView"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/contact/country-codes": {
            "get": {
                "summary": "Dialing codes with expected phone lengths",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.CountryCode"}}}
                }
            }
        },
        "/tickets/options": {
            "get": {
                "summary": "Cities and places available for booking",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "city to list places for", "name": "city", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ticket.Options"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/tickets": {
            "post": {
                "summary": "Book a ticket (idempotent)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "client key, generated when absent", "name": "Idempotency-Key", "in": "header"},
                    {"description": "booking form", "name": "req", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ticket.Form"}}
                ],
                "responses": {
                    "200": {"description": "replayed", "schema": {"$ref": "#/definitions/httpgin.TicketResponse"}},
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/httpgin.TicketResponse"},
                        "headers": {"Idempotency-Key": {"type": "string", "description": "echo"}}
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpgin.ValidationErrorResponse"}},
                    "409": {"description": "same key in flight", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/complaints": {
            "post": {
                "summary": "File a complaint",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "file", "description": "jpg, png or pdf up to 5MB", "name": "attachment", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Complaint"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpgin.ValidationErrorResponse"}}
                }
            }
        },
        "/complaints/{id}": {
            "get": {
                "summary": "Get a filed complaint",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "reference id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Complaint"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "summary": "Admin login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "credentials", "name": "req", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpgin.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httpgin.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpgin.ValidationErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/admin/logout": {
            "post": {
                "summary": "Admin logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/admin/session": {
            "get": {
                "summary": "Current admin session",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httpgin.SessionResponse"}}
                }
            }
        },
        "/admin/stats": {
            "get": {
                "security": [{"AdminSession": []}],
                "summary": "Headline KPIs",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.DashboardStats"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}}
                }
            }
        },
        "/admin/alerts": {
            "get": {
                "security": [{"AdminSession": []}],
                "summary": "Current alert feed",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Alert"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}}
                }
            }
        },
        "/admin/alerts/stream": {
            "get": {
                "security": [{"AdminSession": []}],
                "summary": "Alert feed as server-sent events",
                "produces": ["text/event-stream"],
                "responses": {
                    "200": {"description": "alerts events carrying the feed", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Alert"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/admin/alert-rules": {
            "get": {
                "security": [{"AdminSession": []}],
                "summary": "Alert rules",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AlertRules"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}}
                }
            },
            "put": {
                "security": [{"AdminSession": []}],
                "summary": "Replace alert rules",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "occupancy marks", "name": "req", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.AlertRules"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AlertRules"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpgin.ValidationErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}}
                }
            }
        },
        "/admin/footfall": {
            "get": {
                "security": [{"AdminSession": []}],
                "summary": "Footfall by city with the most crowded places",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "city, defaults to the first one", "name": "city", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.FootfallView"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/admin/footfall/series": {
            "get": {
                "security": [{"AdminSession": []}],
                "summary": "Footfall series for one place",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "city", "name": "city", "in": "query", "required": true},
                    {"type": "string", "description": "place", "name": "tourist_place", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.FootfallPoint"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/admin/footfall/selection": {
            "put": {
                "security": [{"AdminSession": []}],
                "summary": "Select the place polled for the live series",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "city and place", "name": "req", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpgin.FootfallSelectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/monitor.FootfallLive"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpgin.ValidationErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}}
                }
            }
        },
        "/admin/footfall/live": {
            "get": {
                "security": [{"AdminSession": []}],
                "summary": "Latest polled series for the selected place",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/monitor.FootfallLive"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}}
                }
            }
        },
        "/admin/hotels": {
            "get": {
                "security": [{"AdminSession": []}],
                "summary": "Hotel list with occupancy KPIs",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "page, from 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size", "name": "limit", "in": "query"},
                    {"type": "string", "description": "city", "name": "city", "in": "query"},
                    {"type": "string", "description": "city or nearby place", "name": "search", "in": "query"},
                    {"type": "boolean", "description": "vacancy at least 20%", "name": "onlyAvailable", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.HotelsDashboard"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/admin/visitors": {
            "get": {
                "security": [{"AdminSession": []}],
                "summary": "Visitor segmentation and time series",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "city, defaults to the first one", "name": "city", "in": "query"},
                    {"type": "string", "description": "bucket size", "name": "interval", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.VisitorsView"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/httpgin.ErrorResponse"}}
                }
            }
        },
        "/admin/complaints": {
            "get": {
                "security": [{"AdminSession": []}],
                "summary": "Most recent complaints",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "max complaints", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Complaint"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpgin.SessionExpiredResponse"}}
                }
            }
        }
    },
    "definitions": {
        "admin.FootfallView": {
            "type": "object",
            "properties": {
                "cities": {"type": "array", "items": {"type": "string"}},
                "city": {"type": "string"},
                "places": {"type": "array", "items": {"$ref": "#/definitions/domain.FootfallPlace"}},
                "topCrowded": {"type": "array", "items": {"$ref": "#/definitions/analytics.RankedPlace"}}
            }
        },
        "admin.HotelsDashboard": {
            "type": "object",
            "properties": {
                "chart": {"type": "array", "items": {"$ref": "#/definitions/analytics.CityCapacity"}},
                "cities": {"type": "array", "items": {"$ref": "#/definitions/analytics.CitySummary"}},
                "hotels": {"type": "array", "items": {"$ref": "#/definitions/domain.HotelRecord"}},
                "page": {"type": "integer"},
                "summary": {"$ref": "#/definitions/analytics.HotelSummary"},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "admin.VisitorsView": {
            "type": "object",
            "properties": {
                "cities": {"type": "array", "items": {"type": "string"}},
                "city": {"type": "string"},
                "segmentation": {"$ref": "#/definitions/analytics.Segmentation"},
                "series": {"type": "array", "items": {"$ref": "#/definitions/analytics.SeriesPoint"}}
            }
        },
        "analytics.CityCapacity": {
            "type": "object",
            "properties": {
                "capacity": {"type": "integer"},
                "city": {"type": "string"},
                "occupied": {"type": "integer"}
            }
        },
        "analytics.CitySummary": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "occupancyRate": {"type": "number"},
                "occupied": {"type": "integer"},
                "totalHotels": {"type": "integer"},
                "totalRooms": {"type": "integer"},
                "totalVacancy": {"type": "integer"}
            }
        },
        "analytics.HeatPoint": {
            "type": "object",
            "properties": {
                "intensity": {"type": "number"},
                "lat": {"type": "number"},
                "lng": {"type": "number"},
                "place": {"type": "string"}
            }
        },
        "analytics.HotelSummary": {
            "type": "object",
            "properties": {
                "occupancyRate": {"type": "number"},
                "occupied": {"type": "integer"},
                "totalHotels": {"type": "integer"},
                "totalRooms": {"type": "integer"},
                "totalVacancy": {"type": "integer"}
            }
        },
        "analytics.RankedPlace": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "visitors": {"type": "integer"}
            }
        },
        "analytics.Segmentation": {
            "type": "object",
            "properties": {
                "domesticPct": {"type": "number"},
                "domesticVisitors": {"type": "integer"},
                "internationalPct": {"type": "number"},
                "internationalVisitors": {"type": "integer"},
                "totalVisitors": {"type": "integer"}
            }
        },
        "analytics.SeriesPoint": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "visitors": {"type": "integer"}
            }
        },
        "dashboard.HotelsView": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "hasMore": {"type": "boolean"},
                "hotels": {"type": "array", "items": {"$ref": "#/definitions/domain.HotelRecord"}},
                "page": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "dashboard.Insights": {
            "type": "object",
            "properties": {
                "bestSeason": {"type": "string"},
                "bestTime": {"type": "string"},
                "hourly": {"type": "array", "items": {"$ref": "#/definitions/analytics.SeriesPoint"}},
                "recommendation": {"type": "string"},
                "status": {"$ref": "#/definitions/domain.CrowdStatus"},
                "summary": {"type": "array", "items": {"$ref": "#/definitions/domain.PlaceCrowd"}}
            }
        },
        "dashboard.Recommendations": {
            "type": "object",
            "properties": {
                "alerts": {"type": "array", "items": {"$ref": "#/definitions/domain.Alert"}},
                "places": {"type": "array", "items": {"$ref": "#/definitions/domain.Place"}}
            }
        },
        "domain.Alert": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "id": {"type": "string"},
                "location": {"type": "string"},
                "title": {"type": "string"},
                "type": {"$ref": "#/definitions/domain.AlertType"}
            }
        },
        "domain.AlertRules": {
            "type": "object",
            "properties": {
                "hotelHighOccupancy": {"type": "number"},
                "hotelLowOccupancy": {"type": "number"}
            }
        },
        "domain.AlertType": {
            "type": "string",
            "enum": ["Normal", "Medium", "High", "Critical"],
            "x-enum-varnames": ["AlertNormal", "AlertMedium", "AlertHigh", "AlertCritical"]
        },
        "domain.Attachment": {
            "type": "object",
            "properties": {
                "contentType": {"type": "string"},
                "fileName": {"type": "string"},
                "sizeBytes": {"type": "integer"}
            }
        },
        "domain.Complaint": {
            "type": "object",
            "properties": {
                "attachment": {"$ref": "#/definitions/domain.Attachment"},
                "complaintId": {"type": "string"},
                "complaintType": {"type": "string"},
                "country": {"type": "string"},
                "countryCode": {"type": "string"},
                "description": {"type": "string"},
                "email": {"type": "string"},
                "fullName": {"type": "string"},
                "incidentDate": {"type": "string"},
                "location": {"type": "string"},
                "mobile": {"type": "string"},
                "nationality": {"$ref": "#/definitions/domain.TouristType"},
                "state": {"type": "string"},
                "submittedAt": {"type": "string"}
            }
        },
        "domain.CountryCode": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "country": {"type": "string"},
                "digits": {"type": "integer"}
            }
        },
        "domain.CrowdStatus": {
            "type": "string",
            "enum": ["Low", "High", "Critical"],
            "x-enum-varnames": ["CrowdLow", "CrowdHigh", "CrowdCritical"]
        },
        "domain.DashboardStats": {
            "type": "object",
            "properties": {
                "domesticVisitors": {"type": "integer"},
                "hotelOccupancy": {"type": "number"},
                "internationalVisitors": {"type": "integer"},
                "totalFootfall": {"type": "integer"}
            }
        },
        "domain.FootfallPlace": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "total": {"type": "integer"}
            }
        },
        "domain.FootfallPoint": {
            "type": "object",
            "properties": {
                "time": {"type": "string"},
                "visitors": {"type": "integer"}
            }
        },
        "domain.HotelRecord": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "nearbyPlaces": {"type": "array", "items": {"type": "string"}},
                "rating": {"type": "number"},
                "totalRooms": {"type": "integer"},
                "vacancy": {"type": "integer"},
                "vacancyPercent": {"type": "number"}
            }
        },
        "domain.Place": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "crowdCount": {"type": "integer"},
                "crowdStatus": {"$ref": "#/definitions/domain.CrowdStatus"},
                "district": {"type": "string"},
                "lastUpdated": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "domain.PlaceCrowd": {
            "type": "object",
            "properties": {
                "crowd": {"type": "integer"},
                "place": {"type": "string"}
            }
        },
        "domain.TicketReceipt": {
            "type": "object",
            "properties": {
                "idempotencyKey": {"type": "string"},
                "message": {"type": "string"},
                "shareUrl": {"type": "string"},
                "submittedAt": {"type": "string"},
                "ticket": {"$ref": "#/definitions/domain.TicketSubmission"}
            }
        },
        "domain.TicketSubmission": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "country": {"type": "string"},
                "countryCode": {"type": "string"},
                "crowdCountAtBooking": {"type": "integer"},
                "crowdStatus": {"$ref": "#/definitions/domain.CrowdStatus"},
                "fromCity": {"type": "string"},
                "phone": {"type": "string"},
                "place": {"type": "string"},
                "state": {"type": "string"},
                "touristType": {"$ref": "#/definitions/domain.TouristType"},
                "visitors": {"type": "integer"}
            }
        },
        "domain.TouristType": {
            "type": "string",
            "enum": ["domestic", "international"],
            "x-enum-varnames": ["TouristDomestic", "TouristInternational"]
        },
        "domain.UserLocation": {
            "type": "object",
            "properties": {
                "district": {"type": "string"},
                "state": {"type": "string"}
            }
        },
        "httpgin.DetectLocationRequest": {
            "type": "object",
            "properties": {
                "denied": {"type": "boolean"},
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "httpgin.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "httpgin.FootfallSelectionRequest": {
            "type": "object",
            "required": ["city", "place"],
            "properties": {
                "city": {"type": "string"},
                "place": {"type": "string"}
            }
        },
        "httpgin.LoginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "httpgin.LoginResponse": {
            "type": "object",
            "properties": {
                "expiresAt": {"type": "string"},
                "sessionId": {"type": "string"}
            }
        },
        "httpgin.SessionExpiredResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "redirect": {"type": "string"}
            }
        },
        "httpgin.SessionResponse": {
            "type": "object",
            "properties": {
                "expiresAt": {"type": "string"},
                "valid": {"type": "boolean"}
            }
        },
        "httpgin.TicketResponse": {
            "type": "object",
            "properties": {
                "receipt": {"$ref": "#/definitions/domain.TicketReceipt"},
                "replayed": {"type": "boolean"}
            }
        },
        "httpgin.TouristTypeRequest": {
            "type": "object",
            "required": ["touristType"],
            "properties": {
                "touristType": {"$ref": "#/definitions/domain.TouristType"}
            }
        },
        "httpgin.TouristTypeResponse": {
            "type": "object",
            "properties": {
                "set": {"type": "boolean"},
                "touristType": {"$ref": "#/definitions/domain.TouristType"}
            }
        },
        "httpgin.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "monitor.FootfallLive": {
            "type": "object",
            "properties": {
                "selection": {"$ref": "#/definitions/monitor.Selection"},
                "series": {"type": "array", "items": {"$ref": "#/definitions/domain.FootfallPoint"}},
                "updatedAt": {"type": "string"}
            }
        },
        "monitor.Selection": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "place": {"type": "string"}
            }
        },
        "ticket.Form": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "country": {"type": "string"},
                "countryCode": {"type": "string"},
                "fromCity": {"type": "string"},
                "phone": {"type": "string"},
                "place": {"type": "string"},
                "touristType": {"$ref": "#/definitions/domain.TouristType"},
                "visitors": {"type": "integer"}
            }
        },
        "ticket.Options": {
            "type": "object",
            "properties": {
                "cities": {"type": "array", "items": {"type": "string"}},
                "places": {"type": "array", "items": {"$ref": "#/definitions/domain.Place"}}
            }
        }
    },
    "securityDefinitions": {
        "AdminSession": {
            "description": "Session id from /admin/login; the admin_session cookie is accepted too.",
            "type": "apiKey",
            "name": "X-Admin-Session",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "tourdash API",
	Description:      "Crowd, hotel and visitor analytics for the tourism dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
