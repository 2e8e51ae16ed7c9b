package ludopediarepo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/DanielSousa07/Backend-Ludus/util/httpx"
)

const baseURL = "https://ludopedia.com.br/api/v1"

type httpRepo struct {
	apiKey string
	client *http.Client
}

func NewHTTP(apiKey string) Repo {
	return &httpRepo{apiKey: apiKey, client: httpx.Client()}
}

func (r *httpRepo) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("ludopedia: %s returned %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (r *httpRepo) Search(query string) ([]SearchResult, error) {
	// The API is inconsistent about field names across revisions, so
	// every alias is tried.
	var raw struct {
		Jogos []struct {
			IDJogo int64  `json:"id_jogo"`
			ID     int64  `json:"id"`
			NmJogo string `json:"nm_jogo"`
			Nome   string `json:"nome"`
			Name   string `json:"name"`
			Thumb  string `json:"thumb"`
			Imagem string `json:"imagem"`
		} `json:"jogos"`
	}
	if err := r.get("/jogos?search="+url.QueryEscape(query), &raw); err != nil {
		return nil, err
	}

	out := make([]SearchResult, 0, len(raw.Jogos))
	for _, j := range raw.Jogos {
		res := SearchResult{ID: j.IDJogo, Name: j.NmJogo, Image: j.Thumb}
		if res.ID == 0 {
			res.ID = j.ID
		}
		if res.Name == "" {
			res.Name = j.Nome
		}
		if res.Name == "" {
			res.Name = j.Name
		}
		if res.Image == "" {
			res.Image = j.Imagem
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *httpRepo) Details(ludopediaID int64) (*GameDetails, error) {
	var raw struct {
		DeJogo         string  `json:"de_jogo"`
		Resumo         string  `json:"resumo"`
		VlMediaNota    float64 `json:"vl_media_nota"`
		QtJogadoresMin int     `json:"qt_jogadores_min"`
		QtJogadoresMax *int    `json:"qt_jogadores_max"`
		IdadeMinima    int     `json:"idade_minima"`
		VlTempoJogo    *int    `json:"vl_tempo_jogo"`
	}
	if err := r.get(fmt.Sprintf("/jogos/%d", ludopediaID), &raw); err != nil {
		return nil, err
	}

	d := &GameDetails{
		Description: raw.DeJogo,
		Rating:      raw.VlMediaNota,
		MinPlayers:  raw.QtJogadoresMin,
		MaxPlayers:  raw.QtJogadoresMax,
		MinAge:      raw.IdadeMinima,
		MaxTime:     raw.VlTempoJogo,
	}
	if d.Description == "" {
		d.Description = raw.Resumo
	}
	if d.MinPlayers == 0 {
		d.MinPlayers = 1
	}
	return d, nil
}
