package domain

const TransactionTopic = "transaction"

type EventType int

const (
	EventTypeUndefined EventType = iota
	EventTypeGenesisCoinsAdded
	EventTypeTransactionExecuted
)

type Event interface {
	GetTopic() string
	GetType() EventType
}

type GenesisCoinsAdded struct {
	Id       string
	Type     EventType
	NumCoins int
	Amounts  map[string]uint64
}

func (e GenesisCoinsAdded) GetTopic() string   { return TransactionTopic }
func (e GenesisCoinsAdded) GetType() EventType { return EventTypeGenesisCoinsAdded }

type TransactionExecuted struct {
	Id          string
	Type        EventType
	BlockHeight uint32
	NumInputs   int
	NumOutputs  int
	// Amounts is the total amount moved by the tx per asset.
	Amounts map[string]uint64
	GasUsed uint64
}

func (e TransactionExecuted) GetTopic() string   { return TransactionTopic }
func (e TransactionExecuted) GetType() EventType { return EventTypeTransactionExecuted }

type EventRepository interface {
	Save(topic, id string, events []Event) error
	RegisterEventsHandler(topic string, handler func(events []Event))
	ClearRegisteredHandlers(topics ...string)
	Close()
}
