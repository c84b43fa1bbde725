package entity

import "time"

// GameScore puntuación del minijuego del dashboard. El juego en sí vive en el
// cliente; el backend solo persiste puntuaciones y sirve el ranking.
type GameScore struct {
	ID         string
	UserID     string
	PlayerName string
	Score      int
	CreatedAt  time.Time
}
