package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chess-companion/engine"
	"chess-companion/rules"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type playMessage struct {
	Move       string `json:"move"`
	Difficulty string `json:"difficulty,omitempty"`
}

type playReply struct {
	Move   string `json:"move,omitempty"`
	FEN    string `json:"fen"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// handlePlay runs one game per connection. The client always plays the side
// to move first; each client move is answered with the engine's reply and the
// resulting FEN. The connection closes when the game reaches a terminal
// state.
func (s *Server) handlePlay(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	board := rules.NewBoard()
	for {
		var msg playMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		reply := s.playTurn(board, msg)
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
		if reply.Status != engine.InPlay.String() {
			return
		}
	}
}

func (s *Server) playTurn(board *rules.Board, msg playMessage) playReply {
	dif := s.defaultDif
	if msg.Difficulty != "" {
		parsed, err := engine.ParseDifficulty(msg.Difficulty)
		if err != nil {
			return playReply{FEN: board.FEN(), Status: board.Status().String(), Error: err.Error()}
		}
		dif = parsed
	}

	human, err := board.MoveFromUCI(msg.Move)
	if err != nil {
		return playReply{FEN: board.FEN(), Status: board.Status().String(), Error: err.Error()}
	}
	if err := board.Push(human); err != nil {
		return playReply{FEN: board.FEN(), Status: board.Status().String(), Error: err.Error()}
	}
	if st := board.Status(); st.IsTerminal() {
		return playReply{FEN: board.FEN(), Status: st.String()}
	}

	mv, err := s.eng.SelectMove(dif, board)
	if err != nil {
		s.log.Error().Err(err).Str("fen", board.FEN()).Msg("search failed")
		return playReply{FEN: board.FEN(), Status: board.Status().String(), Error: "search failed"}
	}
	if mv == nil {
		return playReply{FEN: board.FEN(), Status: board.Status().String()}
	}
	if err := board.Push(*mv); err != nil {
		s.log.Error().Err(err).Stringer("move", mv).Msg("selected move rejected")
		return playReply{FEN: board.FEN(), Status: board.Status().String(), Error: "internal error"}
	}
	return playReply{Move: mv.String(), FEN: board.FEN(), Status: board.Status().String()}
}
