package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/andeanbio/biomon/pkg/whttp"
)

// Client talks to the Record Store. All responses are parsed into the typed
// entities of this package at this boundary; nothing downstream sees raw JSON.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = whttp.NewClient("")
	}
	return &Client{BaseURL: baseURL, HTTP: httpClient}
}

// timeLayouts lists the timestamp formats the Record Store has been seen
// emitting. A timestamp matching none of them degrades to the zero time
// instead of failing the whole fetch.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ValidateUser checks credentials. A rejected login is (false, nil); an
// unreachable or erroring Record Store is (false, err).
func (c *Client) ValidateUser(ctx context.Context, email, password string) (bool, error) {
	body, _ := json.Marshal(map[string]string{
		"correo":     email,
		"contraseña": password,
	})

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: http.MethodPost,
		URL:    c.BaseURL + "/validar",
		Body:   string(body),
	}, c.HTTP)
	if err != nil {
		return false, fmt.Errorf("validating user: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return false, fmt.Errorf("validating user: unexpected status %d", res.StatusCode)
	}

	return gjson.Get(res.BodyString, "esUsuario").Bool(), nil
}

// GetUserData fetches the profile behind an email. A 404 returns (nil, nil).
func (c *Client) GetUserData(ctx context.Context, email string) (*User, error) {
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: http.MethodGet,
		URL:    c.BaseURL + "/getuserdata/" + url.PathEscape(email),
	}, c.HTTP)
	if err != nil {
		return nil, fmt.Errorf("fetching user data: %w", err)
	}
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching user data: unexpected status %d", res.StatusCode)
	}

	data := gjson.Parse(res.BodyString)
	return &User{
		ID:    int(data.Get("usuario_id").Int()),
		Name:  data.Get("nombre").String(),
		Email: data.Get("correo").String(),
		Title: data.Get("titulo_biologico").String(),
	}, nil
}

// GetAllSpecies fetches the full species catalog.
func (c *Client) GetAllSpecies(ctx context.Context) ([]Species, error) {
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: http.MethodGet,
		URL:    c.BaseURL + "/getAllspecies",
	}, c.HTTP)
	if err != nil {
		return nil, fmt.Errorf("fetching species: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching species: unexpected status %d", res.StatusCode)
	}

	var species []Species
	for _, item := range gjson.Parse(res.BodyString).Array() {
		species = append(species, Species{
			ID:             int(item.Get("especie_id").Int()),
			ScientificName: item.Get("nombre_cientifico").String(),
			CommonName:     item.Get("nombre_comun").String(),
			Family:         item.Get("familia").String(),
		})
	}
	return species, nil
}

// GetAllPosts fetches every sighting post. Individual malformed records
// degrade field by field (zero time, zero counts) rather than failing.
func (c *Client) GetAllPosts(ctx context.Context) ([]Post, error) {
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: http.MethodGet,
		URL:    c.BaseURL + "/getAllPosts",
	}, c.HTTP)
	if err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching posts: unexpected status %d", res.StatusCode)
	}

	var posts []Post
	for _, item := range gjson.Parse(res.BodyString).Array() {
		posts = append(posts, Post{
			ID:        item.Get("id").String(),
			Content:   item.Get("content").String(),
			UserEmail: item.Get("userEmail").String(),
			UserName:  item.Get("userName").String(),
			Location: Location{
				Latitude:  item.Get("location.latitude").Float(),
				Longitude: item.Get("location.longitude").Float(),
			},
			Species:   item.Get("species").String(),
			CreatedAt: parseTime(item.Get("createdAt").String()),
			Likes:     int(item.Get("likes").Int()),
			Comments:  int(item.Get("comments").Int()),
		})
	}
	return posts, nil
}

// CreatePost submits a new sighting and reports whether the Record Store
// accepted it.
func (c *Client) CreatePost(ctx context.Context, input CreatePostInput) (bool, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"usuario_id":  input.UserID,
		"especie_id":  input.SpeciesID,
		"descripcion": input.Description,
		"latitude":    input.Latitude,
		"longitude":   input.Longitude,
	})

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: http.MethodPost,
		URL:    c.BaseURL + "/post",
		Body:   string(body),
	}, c.HTTP)
	if err != nil {
		return false, fmt.Errorf("creating post: %w", err)
	}
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return false, fmt.Errorf("creating post: unexpected status %d", res.StatusCode)
	}

	return gjson.Get(res.BodyString, "isCreated").Bool(), nil
}

// FetchAll issues the posts and species fetches concurrently and returns once
// both settle. Either error is reported; the other list is still returned so
// callers can degrade instead of dropping everything.
func (c *Client) FetchAll(ctx context.Context) ([]Post, []Species, error) {
	var (
		wg         sync.WaitGroup
		posts      []Post
		species    []Species
		postErr    error
		speciesErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		posts, postErr = c.GetAllPosts(ctx)
	}()
	go func() {
		defer wg.Done()
		species, speciesErr = c.GetAllSpecies(ctx)
	}()
	wg.Wait()

	if postErr != nil {
		return posts, species, postErr
	}
	return posts, species, speciesErr
}
