package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shenikar/electricity_status_map/internal/config"
)

// Sentinel-значения, которые подставляются при недоступности геокодера
const (
	UnknownCity    = "Unknown location"
	UnknownCountry = "Unknown region"
)

// Place - результат обратного геокодирования
type Place struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// SearchResult - первый результат прямого поиска по свободному тексту
type SearchResult struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// Geocoder определяет контракт внешнего геокодера
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
	Search(ctx context.Context, query string) (*SearchResult, error)
}

// UnknownPlace возвращает sentinel-пару для случая, когда геокодер недоступен
func UnknownPlace() Place {
	return Place{City: UnknownCity, Country: UnknownCountry}
}

// NominatimClient - клиент HTTP API Nominatim (OpenStreetMap)
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNominatimClient создает новый клиент Nominatim
func NewNominatimClient(cfg *config.Config) *NominatimClient {
	return &NominatimClient{
		baseURL:   cfg.NominatimBaseURL,
		userAgent: cfg.GeocodeUserAgent,
		httpClient: &http.Client{
			Timeout: cfg.GeocodeTimeout,
		},
	}
}

// nominatimAddress - часть ответа Nominatim с компонентами адреса
type nominatimAddress struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	County  string `json:"county"`
	Country string `json:"country"`
}

type nominatimReverseResponse struct {
	Address nominatimAddress `json:"address"`
}

type nominatimSearchItem struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Reverse выполняет обратное геокодирование координат в пару город/страна.
// При любой ошибке вызывающая сторона должна подставить UnknownPlace.
func (c *NominatimClient) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")

	var resp nominatimReverseResponse
	if err := c.doGet(ctx, "/reverse", params, &resp); err != nil {
		return Place{}, err
	}

	// Nominatim возвращает разные уровни населенных пунктов, берем первый заполненный
	city := firstNonEmpty(resp.Address.City, resp.Address.Town, resp.Address.Village, resp.Address.County, UnknownCity)
	country := firstNonEmpty(resp.Address.Country, UnknownCountry)
	return Place{City: city, Country: country}, nil
}

// Search выполняет прямой поиск по свободному тексту и возвращает лучший результат.
// Возвращает nil без ошибки, если ничего не найдено.
func (c *NominatimClient) Search(ctx context.Context, query string) (*SearchResult, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("q", query)
	params.Set("limit", "1")

	var items []nominatimSearchItem
	if err := c.doGet(ctx, "/search", params, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(items[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse latitude in search result: %w", err)
	}
	lon, err := strconv.ParseFloat(items[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse longitude in search result: %w", err)
	}

	return &SearchResult{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: items[0].DisplayName,
	}, nil
}

// doGet выполняет GET-запрос к Nominatim и декодирует JSON-ответ
func (c *NominatimClient) doGet(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create geocoder request: %w", err)
	}
	// Nominatim требует осмысленный User-Agent
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
