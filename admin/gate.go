package admin

import "golang.org/x/crypto/bcrypt"

// Gate checks the shared editor password. It only hides the editor from
// casual visitors: there are no accounts, and anyone who knows or reads the
// configured string gets in.
type Gate struct {
	hash []byte
}

func NewGate(secret string) (*Gate, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Gate{hash: hash}, nil
}

func (g *Gate) Check(input string) bool {
	return bcrypt.CompareHashAndPassword(g.hash, []byte(input)) == nil
}
