package ws

// IHub is the presence registry plus per-user push channel. Each user has
// at most one live client, addressed directly by user id.
type IHub interface {
	Run()
	RegisterClient(client *UserClient)
	UnregisterClient(client *UserClient)
	SendToClient(userID string, message []byte)
	Broadcast(message []byte)
	IsConnected(userID string) bool
	GetClientCount() int
	SetOnClientUnregister(callback func(client *UserClient) error)
}
