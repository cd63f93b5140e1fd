package login

const (
	commandType = "Login"
)

// Command represents the intent to sign in.
type Command struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(email, password string) Command {
	return Command{Email: email, Password: password}
}
