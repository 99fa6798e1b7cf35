package mysql

// One row per listing; position keeps the collection order stable across saves.
const createPropertiesSQL = `
CREATE TABLE IF NOT EXISTS properties (
  position   INT          NOT NULL,
  id         VARCHAR(128) NOT NULL,
  city       VARCHAR(255) NOT NULL DEFAULT '',
  doc        JSON         NOT NULL,
  updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  KEY idx_properties_position (position)
) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci
`

const countPropertiesSQL = `SELECT COUNT(*) FROM properties`

const selectPropertiesSQL = `
SELECT doc
FROM properties
ORDER BY position ASC
`

const deletePropertiesSQL = `DELETE FROM properties`

const insertPropertySQL = `
INSERT INTO properties (position, id, city, doc)
VALUES (?, ?, ?, ?)
`
