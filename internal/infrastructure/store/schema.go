package store

// defaultPragmas apply when the config lists none. The npc table is rebuilt on
// every start, so nothing needs to survive a crash.
var defaultPragmas = []string{
	"mmap_size=268435456",
	"synchronous=OFF",
	"journal_mode=OFF",
}

const npcSchema = `
DROP TABLE IF EXISTS npc;
CREATE TABLE npc (
	id integer primary key not null,
	edid text unique collate nocase,
	name text collate nocase
);
CREATE INDEX npc_edid ON npc (edid);
CREATE INDEX npc_name ON npc (name);
`
