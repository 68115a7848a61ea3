package config

type WorkerKeyStruct struct {
	PersistMarkSheetsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistMarkSheetsQueue: "persist_marksheets_queue",
}
