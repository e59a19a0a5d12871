package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- SPECIES TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS species SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS slug ON species TYPE string;
    DEFINE FIELD IF NOT EXISTS name ON species TYPE string;
    DEFINE FIELD IF NOT EXISTS perspectives ON species TYPE array<string> DEFAULT [];
    -- Ordered [{name, value}] where value is the field's JSON encoding
    DEFINE FIELD IF NOT EXISTS fields ON species TYPE array<object> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS fields.*.name ON species TYPE string;
    DEFINE FIELD IF NOT EXISTS fields.*.value ON species TYPE string;
    DEFINE FIELD IF NOT EXISTS search_text ON species TYPE string DEFAULT "";
    DEFINE FIELD IF NOT EXISTS created ON species TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated ON species TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS species_slug ON species FIELDS slug UNIQUE;
    DEFINE INDEX IF NOT EXISTS species_perspectives ON species FIELDS perspectives;
    DEFINE ANALYZER IF NOT EXISTS species_analyzer TOKENIZERS class FILTERS lowercase, ascii, snowball(english);
    DEFINE INDEX IF NOT EXISTS species_name_ft ON species FIELDS name FULLTEXT ANALYZER species_analyzer BM25;
    DEFINE INDEX IF NOT EXISTS species_text_ft ON species FIELDS search_text FULLTEXT ANALYZER species_analyzer BM25;
`
